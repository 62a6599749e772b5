package gateways

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
)

func TestMarkerWriter_MarkChangedAndRead(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 10, 18, 6, 30, 0, 0, time.UTC)
	m := &MarkerWriter{now: func() time.Time { return at }}

	path, err := m.MarkChanged(dir, []string{"Solar_Lab_Tests", "Certifications"})
	if err != nil {
		t.Fatalf("MarkChanged() error = %v", err)
	}
	if path != filepath.Join(dir, entities.MarkerFileName) {
		t.Errorf("MarkChanged() path = %s", path)
	}

	data, _ := os.ReadFile(path) //nolint:gosec // G304: test path
	want := "2026-10-18T06:30:00Z\nSolar_Lab_Tests\nCertifications\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("marker content mismatch (-want +got):\n%s", diff)
	}

	changedAt, targets, ok, err := ReadMarker(dir)
	if err != nil || !ok {
		t.Fatalf("ReadMarker() = ok %v, err %v", ok, err)
	}
	if !changedAt.Equal(at) {
		t.Errorf("changedAt = %v, want %v", changedAt, at)
	}
	if diff := cmp.Diff([]string{"Solar_Lab_Tests", "Certifications"}, targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkerWriter_Clear(t *testing.T) {
	dir := t.TempDir()
	m := NewMarkerWriter()

	if err := m.Clear(dir); err != nil {
		t.Fatalf("Clear() without marker error = %v", err)
	}

	if _, err := m.MarkChanged(dir, []string{"Line_Trials"}); err != nil {
		t.Fatalf("MarkChanged() error = %v", err)
	}
	if err := m.Clear(dir); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	_, _, ok, err := ReadMarker(dir)
	if err != nil {
		t.Fatalf("ReadMarker() error = %v", err)
	}
	if ok {
		t.Error("marker should be gone after Clear()")
	}
}

func TestReadMarker_InvalidTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, entities.MarkerFileName, []byte("yesterday\nLine_Trials\n"))

	if _, _, _, err := ReadMarker(dir); err == nil {
		t.Error("ReadMarker() should reject an invalid timestamp")
	}
}
