package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kwacihq/grow/pkg/models"
)

// typeOrder defines the display order for the interactive picker
// (defaults first within each type, daily before the longer cadences).
var typeOrder = []models.PlanType{
	models.PlanTypeDaily,
	models.PlanTypeWeekly,
	models.PlanTypeMonthly,
	models.PlanTypeSeasonal,
	models.PlanTypeOneOff,
}

// pickTemplate shows an interactive list of plan templates and returns
// the selected template ID. Returns an error if no templates exist or
// the user cancels.
func pickTemplate() (string, error) {
	if TemplateMgr == nil {
		return "", fmt.Errorf("template store not initialized")
	}

	if err := TemplateMgr.Load(); err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}
	templates, err := TemplateMgr.GetAllTemplates()
	if err != nil {
		return "", fmt.Errorf("listing templates: %w", err)
	}
	if len(templates) == 0 {
		return "", fmt.Errorf("no templates found (use 'grow template import' to add one)")
	}

	// Sort by type order, defaults first within a type, then by ID.
	sort.Slice(templates, func(i, j int) bool {
		ti := typeIndex(templates[i].Type)
		tj := typeIndex(templates[j].Type)
		if ti != tj {
			return ti < tj
		}
		if templates[i].IsDefault != templates[j].IsDefault {
			return templates[i].IsDefault
		}
		return templates[i].ID < templates[j].ID
	})

	fmt.Println("\nAvailable templates:")
	fmt.Println()
	fmt.Printf("  %-4s %-20s %-10s %-14s %-8s %s\n", "#", "ID", "TYPE", "CATEGORY", "DEFAULT", "NAME")
	fmt.Printf("  %-4s %-20s %-10s %-14s %-8s %s\n", "---", "---", "----", "--------", "-------", "----")
	for i, t := range templates {
		def := ""
		if t.IsDefault {
			def = "yes"
		}
		fmt.Printf("  %-4d %-20s %-10s %-14s %-8s %s\n",
			i+1, t.ID, t.Type, t.Category, def, t.Name)
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Select template [1-%d] (or 'q' to cancel): ", len(templates))
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			return "", fmt.Errorf("cancelled")
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(templates) {
			fmt.Printf("  Invalid selection. Enter a number between 1 and %d.\n", len(templates))
			continue
		}

		return templates[num-1].ID, nil
	}
}

// typeIndex returns a sort key for plan type ordering in the picker.
func typeIndex(t models.PlanType) int {
	for i, pt := range typeOrder {
		if t == pt {
			return i
		}
	}
	return len(typeOrder)
}
