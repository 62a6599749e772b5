package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces"
)

// DefaultUserAgent mimics a desktop browser; OneDrive serves an HTML viewer to unknown clients
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Downloader streams share-link downloads to local files
type Downloader struct {
	httpClient *http.Client
	userAgent  string
	logger     interfaces.Logger
}

// DownloaderOptions configures a Downloader
type DownloaderOptions struct {
	Timeout   time.Duration
	UserAgent string
	Logger    interfaces.Logger
}

// NewDownloader creates a new downloader
func NewDownloader(opts DownloaderOptions) *Downloader {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch downloads url to outputPath.
// The body goes to a temporary sibling first and replaces outputPath only when
// the copy completed with a non-empty body.
func (d *Downloader) Fetch(ctx context.Context, url, outputPath string) (*entities.FetchResult, error) {
	start := time.Now()
	result := &entities.FetchResult{ResolvedURL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("%w: create request: %v", entities.ErrDownload, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("%w: %v", entities.ErrNetwork, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, fmt.Errorf("%w: HTTP %d: %s", entities.ErrDownload, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	written, checksum, err := d.writeBody(resp.Body, outputPath)
	result.BytesWritten = written
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	if written == 0 {
		d.logger.Warn("Downloaded file is empty", interfaces.F("path", outputPath))
		return result, fmt.Errorf("%w: %s", entities.ErrEmptyDownload, outputPath)
	}

	result.Success = true
	result.Checksum = checksum
	d.logger.Debug("Download complete",
		interfaces.F("path", outputPath),
		interfaces.F("bytes", written),
		interfaces.F("duration", result.Duration))

	return result, nil
}

// writeBody copies body into a temp file next to dest, hashing on the way.
// Empty bodies leave dest untouched.
func (d *Downloader) writeBody(body io.Reader, dest string) (int64, string, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return 0, "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, "", fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpPath)
		}
	}()

	h := sha256.New()
	written, copyErr := io.Copy(io.MultiWriter(tmp, h), body)
	closeErr := tmp.Close()
	if copyErr != nil {
		// A body cut short is a transport failure, not a local write problem
		var pathErr *os.PathError
		if errors.As(copyErr, &pathErr) {
			return written, "", fmt.Errorf("failed to write file: %w", copyErr)
		}
		return written, "", fmt.Errorf("%w: read body: %v", entities.ErrNetwork, copyErr)
	}
	if closeErr != nil {
		return written, "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if written == 0 {
		return 0, "", nil
	}

	//nolint:gosec // G302: fetched spreadsheets are read by later CI steps
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return written, "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return written, "", fmt.Errorf("failed to move download into place: %w", err)
	}
	keep = true

	return written, hex.EncodeToString(h.Sum(nil)), nil
}
