// ABOUTME: serve, health and init subcommands
// ABOUTME: serve runs the development backend on the configured address

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gopkg.in/yaml.v3"

	"github.com/2389/molindex/internal/client"
	"github.com/2389/molindex/internal/config"
	"github.com/2389/molindex/internal/devserver"
	"github.com/2389/molindex/internal/logging"
	"github.com/2389/molindex/internal/store"
)

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateDevServer(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	printBanner()

	logger := logging.New(cfg.Logging, os.Stderr)

	dbPath := cfg.DevServer.DatabasePath
	if dbPath == "" {
		dbPath = store.MemoryPath
	}
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening usage store: %w", err)
	}
	defer s.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := devserver.New(devserver.Options{
		Config:        cfg.DevServer,
		Usage:         s,
		SessionCookie: cfg.Backend.SessionCookie,
		Extension:     cfg.Intake.Extension,
		Registry:      reg,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.DevServer.ListenAddr)
	green.Print("    ▶ ")
	fmt.Printf("Store:     %s\n", dbPath)
	green.Print("    ▶ ")
	fmt.Printf("Admins:    %d\n", len(cfg.DevServer.AdminEmails))
	if cfg.DevServer.DevLogin {
		yellow.Print("    ! ")
		fmt.Println("dev login enabled: /auth/google?email=... issues a session without a password")
	}
	fmt.Println()

	return srv.Run(ctx)
}

func runHealth(ctx context.Context, cfg *config.Config) error {
	c, err := client.New(client.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logging.Discard(),
	})
	if err != nil {
		return err
	}
	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("backend %s unhealthy: %w", c.BaseURL(), err)
	}
	fmt.Printf("%s %s\n", color.GreenString("✓"), c.BaseURL())
	return nil
}

func runInit(path string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return errors.New("cannot determine config path; pass --config")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.Default()
	cfg.Backend.TimeoutRaw = cfg.Backend.Timeout.String()
	cfg.Intake.ErrorFlashRaw = cfg.Intake.ErrorFlash.String()
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generating jwt secret: %w", err)
	}
	cfg.DevServer.JWTSecret = base64.RawURLEncoding.EncodeToString(secret)

	blob, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("%s wrote %s\n", color.GreenString("✓"), path)
	return nil
}
