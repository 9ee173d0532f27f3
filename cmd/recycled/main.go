package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"recyclechain/config"
	"recyclechain/core"
	"recyclechain/crypto"
	"recyclechain/observability/logging"
	"recyclechain/rpc"
	"recyclechain/storage"
)

const nodePassEnv = "RCY_NODE_PASS"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("RCY_ENV"))
	logger := logging.Setup("recycled", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	key, err := crypto.LoadFromKeystore(cfg.NodeKeystorePath, os.Getenv(nodePassEnv))
	if err != nil {
		logger.Error("Failed to load node key", slog.Any("error", err))
		os.Exit(1)
	}
	adminAddr := key.PubKey().Address()
	var admin [20]byte
	copy(admin[:], adminAddr.Bytes())

	node, err := core.NewNode(db, admin)
	if err != nil {
		logger.Error("Failed to start node", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Node started",
		slog.String("admin", adminAddr.String()),
		slog.String("network", cfg.NetworkName),
		slog.String("rpc", cfg.RPCAddress),
	)

	server := rpc.NewServer(node)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
