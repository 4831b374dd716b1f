package main

import (
	"fmt"
	"io"
	"os"

	"github.com/amonks/shiftbook/internal/kv"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a browser localStorage dump into the store",
	Long: `Load a JSON object of key/value strings, as exported from the browser's
localStorage, into the store. Keys keep their namespace prefix (UB2:...).
Use - to read from stdin.`,
	Args:        cobra.ExactArgs(1),
	RunE:        runImport,
	Annotations: map[string]string{annotationNoRollover: "true"},
}

var exportCmd = &cobra.Command{
	Use:         "export",
	Short:       "Write the whole store as a localStorage dump",
	Args:        cobra.NoArgs,
	RunE:        runExport,
	Annotations: map[string]string{annotationNoRollover: "true"},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open dump: %w", err)
		}
		defer f.Close()
		r = f
	}

	n, err := kv.Import(current.backend, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	return kv.Export(current.backend, cmd.OutOrStdout())
}
