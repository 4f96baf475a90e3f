// Package main is the entry point for the findjobabroad sync API server.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/eskoubar95-tech/findjobabroad/cmd/fja-sync-api/app"
	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
)

func main() {
	// Load .env if present; in production the environment is set externally.
	_ = godotenv.Load()

	if err := app.NewRootCmd().Execute(); err != nil {
		logger.Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}
