// Package gateways defines interfaces for external system integrations.
package gateways

import (
	"context"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
)

// URLResolver turns a share link into a directly downloadable URL
type URLResolver interface {
	// ResolveDirectURL returns an error wrapping entities.ErrResolve when the
	// caller should fall back to the original link
	ResolveDirectURL(ctx context.Context, shareURL string) (string, error)
}

// FileFetcher downloads a URL to a local path
type FileFetcher interface {
	Fetch(ctx context.Context, url, outputPath string) (*entities.FetchResult, error)
}

// ChecksumGateway computes content checksums of local files
type ChecksumGateway interface {
	CalculateChecksum(filePath string) (string, error)
}

// SignatureVerifier checks a fetched file against its detached signature
type SignatureVerifier interface {
	VerifyTarget(ctx context.Context, target *entities.FetchTarget) error
}

// MarkerWriter writes and clears the change marker consumed by later CI steps
type MarkerWriter interface {
	MarkChanged(dir string, changed []string) (string, error)
	Clear(dir string) error
}
