package gpg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/sheetfetch/internal/testutils"
)

func writeData(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "Solar_Lab_Tests.xlsx")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifier_VerifySignatureFromFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("spreadsheet bytes")
	dataPath := writeData(t, dir, data)

	key := testutils.NewSigningKey(t)
	keyPath := filepath.Join(dir, "signer.asc")
	testutils.WritePublicKey(t, key, keyPath)

	tests := []struct {
		name    string
		sig     []byte
		wantErr bool
	}{
		{name: "armored signature", sig: testutils.ArmoredSignature(t, key, data)},
		{name: "binary signature", sig: testutils.BinarySignature(t, key, data)},
		{name: "signature over other content", sig: testutils.ArmoredSignature(t, key, []byte("tampered")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigPath := filepath.Join(t.TempDir(), "data.sig")
			if err := os.WriteFile(sigPath, tt.sig, 0600); err != nil {
				t.Fatal(err)
			}

			v := NewVerifier(nil)
			if err := v.ImportKeyFromFile(keyPath); err != nil {
				t.Fatalf("ImportKeyFromFile() error = %v", err)
			}

			err := v.VerifySignatureFromFile(dataPath, sigPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifySignatureFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifier_VerifySignature_FromURL(t *testing.T) {
	dir := t.TempDir()
	data := []byte("line trials workbook")
	dataPath := writeData(t, dir, data)

	key := testutils.NewSigningKey(t)
	keyPath := filepath.Join(dir, "signer.asc")
	testutils.WritePublicKey(t, key, keyPath)
	sig := testutils.ArmoredSignature(t, key, data)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data.asc":
			_, _ = w.Write(sig)
		case "/KEYS":
			http.ServeFile(w, r, keyPath)
		case "/huge.asc":
			_, _ = w.Write([]byte(strings.Repeat("A", maxSignatureSize+10)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("key file", func(t *testing.T) {
		v := NewVerifier(server.Client())
		if err := v.ImportKeyFromFile(keyPath); err != nil {
			t.Fatalf("ImportKeyFromFile() error = %v", err)
		}
		if err := v.VerifySignature(context.Background(), dataPath, server.URL+"/data.asc"); err != nil {
			t.Errorf("VerifySignature() error = %v", err)
		}
	})

	t.Run("KEYS url", func(t *testing.T) {
		v := NewVerifier(server.Client())
		if err := v.ImportKeysFromURL(context.Background(), server.URL+"/KEYS"); err != nil {
			t.Fatalf("ImportKeysFromURL() error = %v", err)
		}
		if v.KeyringSize() != 1 {
			t.Errorf("KeyringSize() = %d, want 1", v.KeyringSize())
		}
		if err := v.VerifySignature(context.Background(), dataPath, server.URL+"/data.asc"); err != nil {
			t.Errorf("VerifySignature() error = %v", err)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		v := NewVerifier(server.Client())
		_ = v.ImportKeyFromFile(keyPath)
		err := v.VerifySignature(context.Background(), dataPath, server.URL+"/missing.asc")
		if err == nil || !strings.Contains(err.Error(), "failed to download signature") {
			t.Errorf("VerifySignature() error = %v, want download failure", err)
		}
	})

	t.Run("oversized signature", func(t *testing.T) {
		v := NewVerifier(server.Client())
		_ = v.ImportKeyFromFile(keyPath)
		if err := v.VerifySignature(context.Background(), dataPath, server.URL+"/huge.asc"); err == nil {
			t.Error("VerifySignature() should reject oversized signatures")
		}
	})
}

func TestVerifier_NoKeys(t *testing.T) {
	v := NewVerifier(nil)
	err := v.VerifySignatureFromFile("/nonexistent", "/nonexistent.sig")
	if err == nil || !strings.Contains(err.Error(), "no GPG keys imported") {
		t.Errorf("error = %v, want no keys error", err)
	}
}

func TestVerifier_ImportKeyFromFile_Errors(t *testing.T) {
	v := NewVerifier(nil)

	if err := v.ImportKeyFromFile("/nonexistent/key.asc"); err == nil || !strings.Contains(err.Error(), "failed to open key file") {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.asc")
	if err := os.WriteFile(bad, []byte("not a gpg key"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := v.ImportKeyFromFile(bad); err == nil {
		t.Error("ImportKeyFromFile() should reject an invalid key")
	}
	if v.KeyringSize() != 0 {
		t.Errorf("KeyringSize() = %d, want 0", v.KeyringSize())
	}
}
