package gateways

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"github.com/ochairo/sheetfetch/internal/testutils"
)

func TestGPGVerifier_VerifyTarget(t *testing.T) {
	dir := t.TempDir()
	data := []byte("certifications workbook")
	output := writeTestFile(t, dir, "Certifications.xlsx", data)

	key := testutils.NewSigningKey(t)
	keyPath := filepath.Join(dir, "signer.asc")
	testutils.WritePublicKey(t, key, keyPath)

	server := testutils.StartSheetServer(t, map[string][]byte{
		"/good.asc": testutils.ArmoredSignature(t, key, data),
		"/bad.asc":  testutils.ArmoredSignature(t, key, []byte("other")),
	})

	tests := []struct {
		name    string
		sig     entities.SignatureConfig
		wantErr bool
	}{
		{name: "disabled", sig: entities.SignatureConfig{}},
		{name: "valid signature", sig: entities.SignatureConfig{SignatureURL: server.URL + "/good.asc", KeyFile: keyPath}},
		{name: "wrong signature", sig: entities.SignatureConfig{SignatureURL: server.URL + "/bad.asc", KeyFile: keyPath}, wantErr: true},
		{name: "missing key file", sig: entities.SignatureConfig{SignatureURL: server.URL + "/good.asc", KeyFile: filepath.Join(dir, "none.asc")}, wantErr: true},
	}

	g := NewGPGVerifier(server.Client())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &entities.FetchTarget{Name: "Certifications", OutputPath: output, Signature: tt.sig}
			err := g.VerifyTarget(context.Background(), target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, entities.ErrSignature) {
				t.Errorf("error = %v, want ErrSignature", err)
			}
		})
	}
}
