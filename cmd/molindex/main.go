// ABOUTME: Entry point for molindex, the molecular descriptor client
// ABOUTME: Dispatches to the interactive shell, the dev backend and offline helpers

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/molindex/internal/config"
)

// Version is set at build time.
var version = "dev"

const banner = `
               _ _           _
 _ __ ___   __| (_)_ __   __| | _____  __
| '_ ' _ \ / _' | | '_ \ / _' |/ _ \ \/ /
| | | | | | (_) | | | | | (_| |  __/>  <
|_| |_| |_|\___/|_|_| |_|\__,_|\___/_/\_\
`

func usage() {
	fmt.Println("Usage: molindex <command> [--config PATH]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  shell                  Interactive analysis session (default)")
	fmt.Println("  serve                  Start the development backend")
	fmt.Println("  compute MODE FILE...   Compute descriptors locally and print the table")
	fmt.Println("  health                 Check backend health")
	fmt.Println("  init                   Write a default config file")
}

func main() {
	cmd := "shell"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "--config" {
		cmd, args = args[0], args[1:]
	}
	configPath, args := extractConfigFlag(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch cmd {
	case "shell":
		err = withConfig(configPath, func(cfg *config.Config) error { return runShell(ctx, cfg) })
	case "serve":
		err = withConfig(configPath, func(cfg *config.Config) error { return runServe(ctx, cfg) })
	case "compute":
		err = withConfig(configPath, func(cfg *config.Config) error { return runCompute(cfg, args) })
	case "health":
		err = withConfig(configPath, func(cfg *config.Config) error { return runHealth(ctx, cfg) })
	case "init":
		err = runInit(configPath)
	case "help", "-h", "--help":
		usage()
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// extractConfigFlag pulls "--config PATH" out of args.
func extractConfigFlag(args []string) (string, []string) {
	var path string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			path = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return path, rest
}

func withConfig(path string, fn func(*config.Config) error) error {
	cfg, err := config.Resolve(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return fn(cfg)
}

func printBanner() {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)
}
