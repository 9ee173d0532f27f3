package config

import (
	"os"
	"path/filepath"
	"testing"

	"recyclechain/crypto"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != ":8080" {
		t.Fatalf("unexpected rpc address %q", cfg.RPCAddress)
	}
	if cfg.NetworkName != "recycle-local" {
		t.Fatalf("unexpected network name %q", cfg.NetworkName)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file missing: %v", err)
	}
	if _, err := os.Stat(cfg.NodeKeystorePath); err != nil {
		t.Fatalf("node keystore missing: %v", err)
	}
	if _, err := crypto.LoadFromKeystore(cfg.NodeKeystorePath, ""); err != nil {
		t.Fatalf("keystore must decrypt with empty passphrase: %v", err)
	}
}

func TestLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	first, err := Load(path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if *first != *second {
		t.Fatalf("config changed across loads: %+v vs %+v", first, second)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "ListenAddress = \":7001\"\nRPCAddress = \":9090\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddress != ":7001" || cfg.RPCAddress != ":9090" {
		t.Fatalf("explicit fields lost: %+v", cfg)
	}
	if cfg.NetworkName != "recycle-local" || cfg.DataDir != "./recycle-data" {
		t.Fatalf("defaults not filled: %+v", cfg)
	}
	if cfg.NodeKeystorePath == "" {
		t.Fatalf("keystore path not provisioned")
	}
}
