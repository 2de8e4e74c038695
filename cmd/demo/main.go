package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsai/client"
	"newsai/config"
	"newsai/demo/tui"
	"newsai/logging"
	"newsai/pipeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	remote := flag.String("remote", "", "Analysis API URL; empty runs the pipeline in-process")
	timeout := flag.Duration("timeout", 2*time.Minute, "Per-request timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	// Log lines would corrupt the alt screen
	logging.SetupWriter(io.Discard, cfg.Log.Level, false)

	var (
		analyzer tui.Analyzer
		backend  string
	)
	if *remote != "" {
		c := client.New(*remote, *timeout)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		provider, err := c.Health(ctx)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot reach %s: %v\n", *remote, err)
			os.Exit(1)
		}
		analyzer = c
		backend = fmt.Sprintf("%s (%s)", *remote, provider)
	} else {
		p, provider, err := pipeline.Build(context.Background(), cfg, logging.Component("pipeline"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
			os.Exit(1)
		}
		analyzer = p
		backend = fmt.Sprintf("local (%s)", provider.Name())
	}

	// Create the tea program
	program := tea.NewProgram(tui.NewModel(analyzer, backend, *timeout), tea.WithAltScreen())

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
