package gateways

import (
	"fmt"
	"os"
	"strings"
)

// OutputPair is one key=value line for the GitHub Actions step output file
type OutputPair struct {
	Key   string
	Value string
}

// WriteGitHubOutput appends pairs to the file named by $GITHUB_OUTPUT.
// It is a no-op outside GitHub Actions.
func WriteGitHubOutput(pairs ...OutputPair) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	//nolint:gosec // G304: path is provided by the Actions runner
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open GITHUB_OUTPUT: %w", err)
	}
	//nolint:errcheck // Close error surfaces through the write below
	defer f.Close()

	var b strings.Builder
	for _, p := range pairs {
		if strings.ContainsAny(p.Value, "\r\n") {
			return fmt.Errorf("output %s: multi-line values are not supported", p.Key)
		}
		fmt.Fprintf(&b, "%s=%s\n", p.Key, p.Value)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write GITHUB_OUTPUT: %w", err)
	}
	return nil
}
