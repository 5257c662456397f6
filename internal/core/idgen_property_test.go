package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"
)

// Property: every call to Next with the same prefix produces a unique ID,
// and the counter file ends on the call count.
func TestProperty_IDUniqueness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 100).Draw(rt, "n")
		prefix := rapid.StringMatching(`[A-Z]{2,6}`).Draw(rt, "prefix")
		padWidth := rapid.IntRange(0, 8).Draw(rt, "padWidth")

		dir, err := os.MkdirTemp("", "idgen-property-*")
		if err != nil {
			t.Fatalf("failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		gen := NewIDGenerator(dir, padWidth)

		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			id, err := gen.Next(prefix)
			if err != nil {
				rt.Fatalf("Next failed on call %d: %v", i+1, err)
			}
			if _, exists := seen[id]; exists {
				rt.Fatalf("duplicate ID %q on call %d", id, i+1)
			}
			seen[id] = struct{}{}
		}

		data, err := os.ReadFile(filepath.Join(dir, ".counters", prefix))
		if err != nil {
			rt.Fatalf("failed to read counter file: %v", err)
		}
		expected := fmt.Sprintf("%d", n)
		if string(data) != expected {
			rt.Fatalf("expected counter file to contain %s, got %s", expected, string(data))
		}
	})
}
