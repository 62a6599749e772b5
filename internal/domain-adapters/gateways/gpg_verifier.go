package gateways

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"github.com/ochairo/sheetfetch/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter to implement the domain gateway interface.
// Each verification gets a fresh keyring so keys never leak between targets.
type gpgVerifier struct {
	httpClient *http.Client
}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier(httpClient *http.Client) *gpgVerifier {
	return &gpgVerifier{httpClient: httpClient}
}

// VerifyTarget checks the target's output against its configured detached signature
func (g *gpgVerifier) VerifyTarget(ctx context.Context, target *entities.FetchTarget) error {
	sig := target.Signature
	if !sig.Enabled() {
		return nil
	}

	v := gpg.NewVerifier(g.httpClient)
	if sig.KeyFile != "" {
		if err := v.ImportKeyFromFile(sig.KeyFile); err != nil {
			return fmt.Errorf("%w: %s: %v", entities.ErrSignature, target.Name, err)
		}
	} else {
		if err := v.ImportKeysFromURL(ctx, sig.KeysURL); err != nil {
			return fmt.Errorf("%w: %s: %v", entities.ErrSignature, target.Name, err)
		}
	}

	if err := v.VerifySignature(ctx, target.OutputPath, sig.SignatureURL); err != nil {
		return fmt.Errorf("%w: %s: %v", entities.ErrSignature, target.Name, err)
	}
	return nil
}

// VerifyFile checks filePath against a local detached signature and key file
func (g *gpgVerifier) VerifyFile(filePath, sigPath, keyPath string) error {
	v := gpg.NewVerifier(g.httpClient)
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrSignature, err)
	}
	if err := v.VerifySignatureFromFile(filePath, sigPath); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrSignature, err)
	}
	return nil
}
