package entities

import "errors"

// Error kinds produced while fetching targets. Callers match them with errors.Is.
var (
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrResolve              = errors.New("resolve direct download URL")
	ErrNetwork              = errors.New("network error")
	ErrDownload             = errors.New("download failed")
	ErrEmptyDownload        = errors.New("downloaded file is empty")
	ErrChecksumIO           = errors.New("checksum I/O error")
	ErrSignature            = errors.New("signature verification failed")
)

// ErrorKind names the class of err for reports. It returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingConfiguration):
		return "missing_configuration"
	case errors.Is(err, ErrEmptyDownload):
		return "empty_download"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrChecksumIO):
		return "checksum_io"
	case errors.Is(err, ErrSignature):
		return "signature"
	case errors.Is(err, ErrResolve):
		return "resolve"
	default:
		return "unknown"
	}
}
