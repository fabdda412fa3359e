// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"taskdeck/internal/api"
	"taskdeck/internal/auth"
	"taskdeck/internal/backend/taskapi"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/credstore"
	"taskdeck/internal/device"
	"taskdeck/internal/service"
)

func main() {
	// API settings may live in a local .env during development
	_ = godotenv.Load()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newService builds the session stack from config, bootstraps it, and
// returns the backend client. An unusable session is an auth error.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}

	creds, err := credstore.Open(cfg.CredentialPath(), cfg.KeyPath())
	if err != nil {
		return nil, err
	}

	deviceID, err := device.Identity(cfg.DevicePath())
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, creds, deviceID)
	session := auth.NewSession(client, creds)
	session.Bootstrap(ctx)
	if session.State() != auth.StateAuthenticated {
		return nil, cli.ErrNotAuthenticated
	}

	return taskapi.New(client), nil
}
