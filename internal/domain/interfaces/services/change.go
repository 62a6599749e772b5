// Package services defines interfaces for domain service contracts.
package services

// ChangeService tracks whether a freshly fetched file differs from its previous copy
type ChangeService interface {
	// Backup moves an existing output aside; it reports false when there was nothing to move
	Backup(outputPath string) (bool, error)

	// Restore puts the previous copy back after a failed fetch
	Restore(outputPath string) error

	// DetectChange compares the output with its backup and always consumes the backup
	DetectChange(outputPath string) (bool, error)
}
