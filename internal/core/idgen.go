package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IDGenerator defines the interface for generating unique, sequential
// record IDs. Each prefix (PLAN, TASK, GOAL, SALE, ...) has its own
// counter, so two concurrent materializations of different plans never
// hand out the same ID for a given prefix sequence.
type IDGenerator interface {
	Next(prefix string) (string, error)
}

// fileIDGenerator implements IDGenerator by persisting one counter file
// per prefix under a .counters directory.
type fileIDGenerator struct {
	basePath string
	padWidth int
}

// NewIDGenerator creates an IDGenerator that stores its counters under
// basePath/.counters. padWidth controls the zero-padding width of the
// numeric portion; use 0 for no padding (e.g. PLAN-1).
func NewIDGenerator(basePath string, padWidth int) IDGenerator {
	return &fileIDGenerator{
		basePath: basePath,
		padWidth: padWidth,
	}
}

// Next reads the counter for the given prefix, increments it, writes it
// back, and returns the formatted ID (e.g. TASK-00042). A missing counter
// file starts the sequence at 1.
func (g *fileIDGenerator) Next(prefix string) (string, error) {
	countersDir := filepath.Join(g.basePath, ".counters")
	counterPath := filepath.Join(countersDir, prefix)

	counter := 0
	data, err := os.ReadFile(counterPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading %s counter file: %w", prefix, err)
	}
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		counter, err = strconv.Atoi(trimmed)
		if err != nil {
			return "", fmt.Errorf("parsing %s counter %q: %w", prefix, trimmed, err)
		}
	}

	counter++

	if err := os.MkdirAll(countersDir, 0o750); err != nil {
		return "", fmt.Errorf("creating counters directory: %w", err)
	}
	if err := os.WriteFile(counterPath, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("writing %s counter file: %w", prefix, err)
	}

	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", prefix, g.padWidth, counter), nil
	}
	return fmt.Sprintf("%s-%d", prefix, counter), nil
}
