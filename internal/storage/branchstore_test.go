package storage

import (
	"testing"

	"github.com/kwacihq/grow/pkg/models"
)

func TestBranchStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewBranchManager(dir)
	if err := store.Load(); err != nil {
		t.Fatalf("loading: %v", err)
	}
	if err := store.AddBranch(models.Branch{ID: "BRANCH-1", Name: "Downtown", Location: "Jl. Sudirman 12"}); err != nil {
		t.Fatalf("adding branch: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("saving: %v", err)
	}

	reloaded := NewBranchManager(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reloading: %v", err)
	}
	branch, err := reloaded.GetBranch("BRANCH-1")
	if err != nil {
		t.Fatalf("getting branch: %v", err)
	}
	if branch.Name != "Downtown" || branch.Location != "Jl. Sudirman 12" {
		t.Errorf("branch lost in round trip: %+v", branch)
	}
}

func TestBranchStore_DuplicateAndRemove(t *testing.T) {
	store := NewBranchManager(t.TempDir())
	if err := store.Load(); err != nil {
		t.Fatalf("loading: %v", err)
	}
	if err := store.AddBranch(models.Branch{ID: "BRANCH-1", Name: "Downtown"}); err != nil {
		t.Fatalf("adding: %v", err)
	}
	if err := store.AddBranch(models.Branch{ID: "BRANCH-1", Name: "Again"}); err == nil {
		t.Error("expected error adding duplicate branch")
	}
	if err := store.AddBranch(models.Branch{}); err == nil {
		t.Error("expected error adding branch without ID")
	}
	if err := store.RemoveBranch("BRANCH-1"); err != nil {
		t.Fatalf("removing: %v", err)
	}
	if err := store.RemoveBranch("BRANCH-1"); err == nil {
		t.Error("expected error removing absent branch")
	}
}

func TestBranchStore_ListSortedByID(t *testing.T) {
	store := NewBranchManager(t.TempDir())
	if err := store.Load(); err != nil {
		t.Fatalf("loading: %v", err)
	}
	for _, id := range []string{"BRANCH-2", "BRANCH-1", "BRANCH-3"} {
		if err := store.AddBranch(models.Branch{ID: id, Name: id}); err != nil {
			t.Fatalf("adding %s: %v", id, err)
		}
	}
	branches, err := store.GetAllBranches()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	for i, want := range []string{"BRANCH-1", "BRANCH-2", "BRANCH-3"} {
		if branches[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, branches[i].ID)
		}
	}
}
