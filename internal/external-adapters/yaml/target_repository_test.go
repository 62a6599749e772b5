package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTargetRepository_Defaults(t *testing.T) {
	t.Setenv("SOLAR_LAB_TESTS_URL", "https://1drv.ms/x/s!Solar")
	t.Setenv("LINE_TRIALS_URL", "")
	t.Setenv("CERTIFICATIONS_URL", "https://1drv.ms/x/s!Cert")

	repo := NewTargetRepository("", "data")
	targets, err := repo.ListTargets(context.Background())
	if err != nil {
		t.Fatalf("ListTargets() error = %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("ListTargets() returned %d targets, want 3", len(targets))
	}

	names := []string{"Solar_Lab_Tests", "Line_Trials", "Certifications"}
	for i, want := range names {
		if targets[i].Name != want {
			t.Errorf("targets[%d].Name = %v, want %v", i, targets[i].Name, want)
		}
	}
	if targets[1].HasURL() {
		t.Error("Line_Trials should have no URL when its variable is empty")
	}
	if targets[2].ShareURL != "https://1drv.ms/x/s!Cert" {
		t.Errorf("Certifications ShareURL = %v", targets[2].ShareURL)
	}
}

func TestTargetRepository_GetTarget(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "targets.yml")
	err := os.WriteFile(file, []byte("targets:\n  - name: Roster\n    url: https://1drv.ms/x/s!Roster\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	repo := NewTargetRepository(file, tmpDir)
	target, err := repo.GetTarget(context.Background(), "Roster")
	if err != nil {
		t.Fatalf("GetTarget() error = %v", err)
	}
	if target.OutputPath != filepath.Join(tmpDir, "Roster.xlsx") {
		t.Errorf("OutputPath = %v", target.OutputPath)
	}

	if _, err := repo.GetTarget(context.Background(), "Solar_Lab_Tests"); err == nil {
		t.Error("GetTarget() should return error for a target not in the file")
	}
}

func TestTargetRepository_MissingFile(t *testing.T) {
	repo := NewTargetRepository(filepath.Join(t.TempDir(), "none.yml"), "data")
	if _, err := repo.ListTargets(context.Background()); err == nil {
		t.Error("ListTargets() should fail for a missing targets file")
	}
}
