// Package main implements the sb CLI, the shop's daily shift checklist.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// execute runs the root command and closes the store afterwards. Cobra skips
// the post-run hook when a command fails, so the close happens here too.
func execute() error {
	err := rootCmd.Execute()
	if closeErr := closeApp(); err == nil {
		err = closeErr
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:   "sb",
	Short: "Shiftbook - the daily shift checklist",
	Long: `Shiftbook keeps the shop's daily checklist: the opening and closing shift
tasks, the handover note and the Too Good To Go and write-off counts.

The first command of a business day archives the previous day and starts a
fresh checklist from the task template.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

var (
	globalDay    string
	globalConfig string
	globalStore  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalDay, "day", "", "Day to show or edit (YYYY-MM-DD, today, yesterday, tomorrow)")
	flags.StringVar(&globalConfig, "config", "", "Path to a config file")
	flags.StringVar(&globalStore, "store", "", "Store backend (file, sqlite, memory)")
}

func exitCode(err error) int {
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
