package config

import (
	"os"
	"path/filepath"
	"strings"

	"recyclechain/crypto"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ListenAddress    string `toml:"ListenAddress"`
	RPCAddress       string `toml:"RPCAddress"`
	DataDir          string `toml:"DataDir"`
	NetworkName      string `toml:"NetworkName"`
	NodeKeystorePath string `toml:"NodeKeystorePath"`
}

// Load loads the configuration from the given path. A missing file is
// populated with defaults and a freshly generated node keystore.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := ensureKeystore(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "recycle-local"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./recycle-data"
	}

	return cfg, nil
}

func ensureKeystore(configPath string, cfg *Config) error {
	keystorePath := cfg.NodeKeystorePath
	if keystorePath == "" {
		keystorePath = defaultKeystorePath(configPath)
	}

	if _, err := os.Stat(keystorePath); os.IsNotExist(err) {
		key, genErr := crypto.GeneratePrivateKey()
		if genErr != nil {
			return genErr
		}
		if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if cfg.NodeKeystorePath != keystorePath {
		cfg.NodeKeystorePath = keystorePath
		return persist(configPath, cfg)
	}

	return nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	keystorePath := defaultKeystorePath(path)
	if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddress:    ":6001",
		RPCAddress:       ":8080",
		DataDir:          "./recycle-data",
		NetworkName:      "recycle-local",
		NodeKeystorePath: keystorePath,
	}

	if err := persist(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		dir = ""
	}
	return filepath.Join(dir, "node.keystore")
}
