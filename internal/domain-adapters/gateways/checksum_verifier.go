package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// checksumVerifier hashes fetched files with SHA-256
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// CalculateChecksum returns the hex SHA-256 of the file at filePath
func (v *checksumVerifier) CalculateChecksum(filePath string) (string, error) {
	//nolint:gosec // G304: filePath is a fetch output or its backup
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum compares the file's SHA-256 with expectedSum (case-insensitive hex)
func (v *checksumVerifier) VerifyChecksum(_ context.Context, filePath, expectedSum string) error {
	actualSum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actualSum, strings.TrimSpace(expectedSum)) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actualSum)
	}
	return nil
}

// VerifyChecksumFile verifies filePath against a sha256sum-style file ("hash  filename")
func (v *checksumVerifier) VerifyChecksumFile(ctx context.Context, filePath, checksumFile string) error {
	//nolint:gosec // G304: checksumFile is user-provided path for verification
	data, err := os.ReadFile(checksumFile)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	expected, err := ParseChecksumLine(string(data))
	if err != nil {
		return err
	}
	return v.VerifyChecksum(ctx, filePath, expected)
}

// ParseChecksumLine extracts the hash from the first line of a checksum file
func ParseChecksumLine(content string) (string, error) {
	parts := strings.Fields(content)
	if len(parts) < 1 {
		return "", fmt.Errorf("invalid checksum file format")
	}
	sum := parts[0]
	if len(sum) != sha256.Size*2 {
		return "", fmt.Errorf("invalid checksum length %d, want %d", len(sum), sha256.Size*2)
	}
	if _, err := hex.DecodeString(sum); err != nil {
		return "", fmt.Errorf("invalid checksum encoding: %w", err)
	}
	return sum, nil
}
