package cli

import (
	"testing"
	"time"

	"github.com/kwacihq/grow/pkg/models"
)

func TestParseRecipe(t *testing.T) {
	lines, err := parseRecipe("ING-1=0.5,ING-2=2")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].IngredientID != "ING-1" || lines[0].Quantity.String() != "0.5" {
		t.Errorf("first line: %+v", lines[0])
	}
	if lines[1].IngredientID != "ING-2" || lines[1].Quantity.String() != "2" {
		t.Errorf("second line: %+v", lines[1])
	}
}

func TestParseRecipe_Empty(t *testing.T) {
	lines, err := parseRecipe("")
	if err != nil {
		t.Fatalf("empty recipe: %v", err)
	}
	if lines != nil {
		t.Errorf("expected nil lines, got %+v", lines)
	}
}

func TestParseRecipe_Invalid(t *testing.T) {
	for _, input := range []string{"ING-1", "=2", "ING-1=two"} {
		if _, err := parseRecipe(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestParseDateFlag(t *testing.T) {
	fallback := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	got, err := parseDateFlag("", fallback)
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if !got.Equal(fallback) {
		t.Errorf("empty input should yield fallback, got %v", got)
	}

	got, err = parseDateFlag("2026-04-01", fallback)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.April || got.Day() != 1 {
		t.Errorf("parsed wrong: %v", got)
	}

	if _, err := parseDateFlag("not-a-date", fallback); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestParseSinceDuration(t *testing.T) {
	now := time.Now().UTC()

	week, err := parseSinceDuration("7d")
	if err != nil {
		t.Fatalf("parsing 7d: %v", err)
	}
	if diff := now.Sub(week); diff < 6*24*time.Hour || diff > 8*24*time.Hour {
		t.Errorf("7d should be about a week back, got %v", diff)
	}

	if _, err := parseSinceDuration("7x"); err == nil {
		t.Error("expected error for unknown suffix")
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]models.Money{
		"PROD-2": models.MoneyFromInt(1),
		"PROD-1": models.MoneyFromInt(2),
		"PROD-3": models.MoneyFromInt(3),
	}
	keys := sortedKeys(m)
	for i, want := range []string{"PROD-1", "PROD-2", "PROD-3"} {
		if keys[i] != want {
			t.Errorf("position %d: expected %s, got %s", i, want, keys[i])
		}
	}
}

func TestTypeIndex_OrdersKnownTypes(t *testing.T) {
	if typeIndex(models.PlanTypeDaily) >= typeIndex(models.PlanTypeWeekly) {
		t.Error("daily should sort before weekly")
	}
	if typeIndex(models.PlanTypeOneOff) >= typeIndex("mystery") {
		t.Error("unknown types should sort last")
	}
}

func TestSeverityRank(t *testing.T) {
	if severityRank("high") >= severityRank("medium") || severityRank("medium") >= severityRank("low") {
		t.Error("severity should rank high before medium before low")
	}
	if severityRank("low") >= severityRank("mystery") {
		t.Error("unknown severities should rank last")
	}
}
