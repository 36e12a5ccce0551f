package main

import (
	"log"

	"github.com/joho/godotenv"

	"doc-translator/internal/config"
	"doc-translator/internal/logger"
	"doc-translator/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.EnableConsole = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	srv := worker.NewServer(cfg)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		logger.Error("worker proxy stopped", err)
		log.Fatalf("worker proxy stopped: %v", err)
	}
}
