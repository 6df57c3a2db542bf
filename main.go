package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duo/internal/config"
	"github.com/LFroesch/duo/internal/logger"
	"github.com/LFroesch/duo/internal/nav"
	"github.com/LFroesch/duo/internal/scanner"
)

func initialModel() *model {
	cfg := config.Load()

	logger.SetDebug(cfg.Debug)
	if err := logger.Init(cfg.LogFile); err != nil {
		logger.Warn("Failed to open log file, logging to stderr: %v", err)
	}
	logger.Info("Starting file manager")

	state, err := nav.New(nav.WithScanner(scanner.New(cfg.MaxEntries)))
	if err != nil {
		logger.Warn("startup: %v", err)
	}
	logger.Debug("Current path: %s", state.Path())

	return newModel(state, cfg)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	_, err := p.Run()
	logger.Info("Exiting")
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
