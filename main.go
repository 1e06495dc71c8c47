package main

import (
	"log"

	"github.com/0tiemWBmine0/specset-go/cmd"
	"github.com/0tiemWBmine0/specset-go/internal/config"
)

func main() {
	// Load configuration file and environment variables
	ctx, err := config.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	rootCmd := cmd.RootCommand(ctx)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command execution failed: %v", err)
	}
}
