package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tasker-app/tasker/internal/config"
	"github.com/tasker-app/tasker/internal/session"
	"github.com/tasker-app/tasker/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tasker",
	Short: "Tasker - AI-powered task list",
	Long:  `Tasker is a local-first task list with AI-powered task breakdowns: add tasks, track progress, and let Gemini split a task into actionable sub-steps.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
	dbPath     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.tasker/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(taskAddCmd)
	rootCmd.AddCommand(taskListCmd)
	rootCmd.AddCommand(taskToggleCmd)
	rootCmd.AddCommand(taskDeleteCmd)
	rootCmd.AddCommand(taskBreakdownCmd)
	rootCmd.AddCommand(taskClearCmd)
	rootCmd.AddCommand(taskStatsCmd)
	rootCmd.AddCommand(tuiCmd)
}

// loadConfig resolves the effective configuration for this invocation.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromHome()
	}
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openSession opens the store and loads the task list. The caller must close
// the returned store.
func openSession() (*config.Config, *store.Store, *session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, s, session.New(s), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
