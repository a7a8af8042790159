package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/gyeh/ardash/internal/exitcode"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
