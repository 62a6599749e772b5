package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces/gateways"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces/services"
)

// changeService implements ChangeService by renaming the previous copy aside
// and comparing checksums after the fetch
type changeService struct {
	checksums gateways.ChecksumGateway
}

// NewChangeService creates a new change service with dependency injection
func NewChangeService(checksums gateways.ChecksumGateway) services.ChangeService {
	return &changeService{checksums: checksums}
}

// Backup renames outputPath to its backup sibling
func (s *changeService) Backup(outputPath string) (bool, error) {
	if _, err := os.Stat(outputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", outputPath, err)
	}

	if err := os.Rename(outputPath, backupPath(outputPath)); err != nil {
		return false, fmt.Errorf("failed to back up %s: %w", outputPath, err)
	}
	return true, nil
}

// Restore moves the backup over outputPath. A missing backup is not an error.
func (s *changeService) Restore(outputPath string) error {
	backup := backupPath(outputPath)
	if _, err := os.Stat(backup); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := os.Rename(backup, outputPath); err != nil {
		return fmt.Errorf("failed to restore %s: %w", outputPath, err)
	}
	return nil
}

// DetectChange reports whether outputPath differs from its backup.
// The backup is removed whatever the outcome.
func (s *changeService) DetectChange(outputPath string) (changed bool, err error) {
	backup := backupPath(outputPath)
	if _, statErr := os.Stat(backup); errors.Is(statErr, fs.ErrNotExist) {
		return false, nil
	}

	defer func() {
		if rmErr := os.Remove(backup); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = fmt.Errorf("%w: remove backup: %v", entities.ErrChecksumIO, rmErr)
		}
	}()

	current, err := s.checksums.CalculateChecksum(outputPath)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", entities.ErrChecksumIO, outputPath, err)
	}

	previous, err := s.checksums.CalculateChecksum(backup)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", entities.ErrChecksumIO, backup, err)
	}

	return current != previous, nil
}

func backupPath(outputPath string) string {
	return outputPath + entities.BackupSuffix
}
