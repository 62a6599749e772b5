// Package entities defines core domain models and data structures.
package entities

// File suffixes and names shared by every fetch run
const (
	// BackupSuffix is appended to an output path to keep the previous copy during a run
	BackupSuffix = ".previous"

	// MarkerFileName signals downstream CI steps that tracked data changed
	MarkerFileName = ".files_changed"

	// DefaultExtension is used when a target does not name its output file
	DefaultExtension = ".xlsx"
)

// FetchTarget represents one spreadsheet mirrored from a share link
type FetchTarget struct {
	Name       string
	ShareURL   string
	OutputPath string
	EnvVar     string // Environment variable the share URL is read from
	Signature  SignatureConfig
}

// SignatureConfig configures optional detached OpenPGP signature verification
type SignatureConfig struct {
	SignatureURL string
	KeyFile      string // Armored or binary public key used to check the signature
	KeysURL      string // Published KEYS file, used when KeyFile is empty
}

// Enabled reports whether a signature location and a key source are configured
func (s SignatureConfig) Enabled() bool {
	return s.SignatureURL != "" && (s.KeyFile != "" || s.KeysURL != "")
}

// BackupPath returns the sibling path holding the previous copy of the output
func (t *FetchTarget) BackupPath() string {
	return t.OutputPath + BackupSuffix
}

// HasURL reports whether a share URL was configured for the target
func (t *FetchTarget) HasURL() bool {
	return t.ShareURL != ""
}
