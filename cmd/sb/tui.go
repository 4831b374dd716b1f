package main

import (
	"fmt"

	"github.com/amonks/shiftbook/internal/editor"
	"github.com/amonks/shiftbook/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive checklist",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !editor.IsInteractive() {
		return exitError{code: exitUsage, err: fmt.Errorf("tui needs a terminal")}
	}
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Options{
		Book:     current.book,
		Settings: current.settings,
		Day:      day,
		Logger:   current.logger,
	})
}
