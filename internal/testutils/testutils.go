// Package testutils provides shared test infrastructure: a fake share-link
// server and OpenPGP fixtures.
package testutils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// SheetServer serves spreadsheet payloads by path. Payloads can be swapped
// between runs to simulate edits made on OneDrive.
type SheetServer struct {
	*httptest.Server

	mu       sync.Mutex
	files    map[string][]byte
	requests map[string]int
}

// StartSheetServer starts a server with the given path -> payload map.
// The server is closed when the test ends.
func StartSheetServer(t *testing.T, files map[string][]byte) *SheetServer {
	t.Helper()

	s := &SheetServer{
		files:    make(map[string][]byte),
		requests: make(map[string]int),
	}
	for p, data := range files {
		s.files[p] = data
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		data, ok := s.files[r.URL.Path]
		s.requests[r.URL.Path]++
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(data)
	}))
	t.Cleanup(s.Close)

	return s
}

// Set replaces the payload served at path
func (s *SheetServer) Set(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
}

// Requests returns how many times path was requested
func (s *SheetServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// NewSigningKey generates a throwaway OpenPGP identity
func NewSigningKey(t *testing.T) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("sheetfetch test", "", "ci@example.com", nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return entity
}

// WritePublicKey writes the entity's armored public key to path
func WritePublicKey(t *testing.T, entity *openpgp.Entity, path string) {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("armor encode: %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("serialize public key: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close armor writer: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatalf("write public key: %v", err)
	}
}

// ArmoredSignature returns an armored detached signature of data
func ArmoredSignature(t *testing.T, entity *openpgp.Entity, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, entity, bytes.NewReader(data), nil); err != nil {
		t.Fatalf("sign: %v", err)
	}
	return buf.Bytes()
}

// BinarySignature returns a binary detached signature of data
func BinarySignature(t *testing.T, entity *openpgp.Entity, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := openpgp.DetachSign(&buf, entity, bytes.NewReader(data), nil); err != nil {
		t.Fatalf("sign: %v", err)
	}
	return buf.Bytes()
}
