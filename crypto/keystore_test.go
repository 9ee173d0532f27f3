package crypto

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeystoreRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "keys", "node.keystore")

	if err := SaveToKeystore(path, key, "hunter2"); err != nil {
		t.Fatalf("save keystore: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat keystore: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("keystore permissions %v, want 0600", perm)
	}

	loaded, err := LoadFromKeystore(path, "hunter2")
	if err != nil {
		t.Fatalf("load keystore: %v", err)
	}
	if loaded.PubKey().Address().String() != key.PubKey().Address().String() {
		t.Fatalf("loaded key address mismatch")
	}

	if _, err := LoadFromKeystore(path, "wrong"); err == nil {
		t.Fatalf("expected decrypt failure with wrong passphrase")
	}
}

func TestSaveToKeystoreOverwrites(t *testing.T) {
	first, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	second, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "node.keystore")

	if err := SaveToKeystore(path, first, ""); err != nil {
		t.Fatalf("save keystore: %v", err)
	}
	if err := SaveToKeystore(path, second, ""); err != nil {
		t.Fatalf("overwrite keystore: %v", err)
	}

	loaded, err := LoadFromKeystore(path, "")
	if err != nil {
		t.Fatalf("load keystore: %v", err)
	}
	if loaded.PubKey().Address().String() != second.PubKey().Address().String() {
		t.Fatalf("keystore should hold the most recently saved key")
	}
}
