package gateways

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
)

// MarkerWriter maintains the change marker file in the output directory
type MarkerWriter struct {
	now func() time.Time
}

// NewMarkerWriter creates a marker writer using the wall clock
func NewMarkerWriter() *MarkerWriter {
	return &MarkerWriter{now: time.Now}
}

// MarkChanged writes dir/.files_changed: an RFC 3339 timestamp line followed by
// one line per changed target
func (m *MarkerWriter) MarkChanged(dir string, changed []string) (string, error) {
	var b strings.Builder
	b.WriteString(m.now().UTC().Format(time.RFC3339))
	b.WriteByte('\n')
	for _, name := range changed {
		b.WriteString(name)
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, entities.MarkerFileName)
	//nolint:gosec // G306: marker is read by later CI steps
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write change marker: %w", err)
	}
	return path, nil
}

// Clear removes a marker left behind by an earlier run
func (m *MarkerWriter) Clear(dir string) error {
	err := os.Remove(filepath.Join(dir, entities.MarkerFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear change marker: %w", err)
	}
	return nil
}

// ReadMarker returns the timestamp and target names recorded in dir's marker.
// ok is false when no marker exists.
func ReadMarker(dir string) (changedAt time.Time, targets []string, ok bool, err error) {
	//nolint:gosec // G304: dir is the configured output directory
	data, err := os.ReadFile(filepath.Join(dir, entities.MarkerFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil, false, nil
	}
	if err != nil {
		return time.Time{}, nil, false, fmt.Errorf("failed to read change marker: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	changedAt, err = time.Parse(time.RFC3339, strings.TrimSpace(lines[0]))
	if err != nil {
		return time.Time{}, nil, true, fmt.Errorf("invalid change marker timestamp: %w", err)
	}
	for _, line := range lines[1:] {
		if name := strings.TrimSpace(line); name != "" {
			targets = append(targets, name)
		}
	}
	return changedAt, targets, true, nil
}
