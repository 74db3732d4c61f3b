package main

import (
	"flag"
	"log"
	"os"

	"AssetRadar/internal/di"
	"AssetRadar/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s stocks=%d cryptos=%d", cfg.Environment, len(cfg.Analysis.TopStocks), len(cfg.Analysis.TopCryptos))

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
