package main

import (
	"github.com/spf13/cobra"
	"github.com/tasker-app/tasker/internal/breakdown"
	"github.com/tasker-app/tasker/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	client := breakdown.New(cfg.ResolveAPIKey(),
		breakdown.WithModel(cfg.Model),
		breakdown.WithTimeout(cfg.RequestTimeout()),
	)

	return tui.New(sess, client, cfg.RequestTimeout()).Run()
}
