package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/soniq-music/soniq-webapp-backend/internal/app"
)

func main() {
	// Missing .env is fine, real deployments inject the environment.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
