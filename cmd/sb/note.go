package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/shiftbook/checklist"
	"github.com/amonks/shiftbook/internal/editor"
	"github.com/amonks/shiftbook/internal/markdown"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Show or change the handover note",
	Args:  cobra.NoArgs,
	RunE:  runNoteShow,
}

var noteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the handover note",
	Args:  cobra.NoArgs,
	RunE:  runNoteShow,
}

var noteSetCmd = &cobra.Command{
	Use:   "set <text>...",
	Short: "Replace the handover note (use - to read stdin)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNoteSet,
}

var noteEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the note and quick fields in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runNoteEdit,
}

var noteRaw bool

var quickCmd = &cobra.Command{
	Use:   "quick [tgtg|writeoff] [value]",
	Short: "Show or set the Too Good To Go and write-off fields",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runQuick,
}

func init() {
	rootCmd.AddCommand(noteCmd, quickCmd)
	noteCmd.AddCommand(noteShowCmd, noteSetCmd, noteEditCmd)

	noteCmd.Flags().BoolVar(&noteRaw, "raw", false, "Print the note without formatting")
	noteShowCmd.Flags().BoolVar(&noteRaw, "raw", false, "Print the note without formatting")
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	record, err := current.book.LoadDay(day)
	if err != nil {
		return err
	}
	if !record.HasNote() {
		fmt.Fprintln(cmd.OutOrStdout(), "No handover note.")
		return nil
	}
	if noteRaw {
		fmt.Fprintln(cmd.OutOrStdout(), record.Note)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(markdown.Render(terminalWidth(), 0, []byte(record.Note)))
	return err
}

func runNoteSet(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read note: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	if _, err := current.book.SetNote(day, text); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved note for %s\n", day)
	return nil
}

func runNoteEdit(cmd *cobra.Command, args []string) error {
	if !editor.IsInteractive() {
		return exitError{code: exitUsage, err: fmt.Errorf("note edit needs a terminal; use sb note set")}
	}
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	record, err := current.book.LoadDay(day)
	if err != nil {
		return err
	}

	parsed, err := editor.EditHandover(editor.HandoverData{
		Day:         string(day),
		TooGoodToGo: record.Quick.TooGoodToGo,
		WriteOff:    record.Quick.WriteOff,
		Note:        record.Note,
	})
	if err != nil {
		return err
	}

	if _, err := current.book.SetNote(day, parsed.Note); err != nil {
		return err
	}
	if _, err := current.book.SetQuick(day, checklist.QuickTooGoodToGo, parsed.TooGoodToGo); err != nil {
		return err
	}
	if _, err := current.book.SetQuick(day, checklist.QuickWriteOff, parsed.WriteOff); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved handover for %s\n", day)
	return nil
}

func runQuick(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}

	if len(args) == 2 {
		field, err := checklist.ParseQuickField(args[0])
		if err != nil {
			return usageError(err)
		}
		if _, err := current.book.SetQuick(day, field, strings.TrimSpace(args[1])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s for %s\n", field, day)
		return nil
	}

	record, err := current.book.LoadDay(day)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		field, err := checklist.ParseQuickField(args[0])
		if err != nil {
			return usageError(err)
		}
		value := record.Quick.TooGoodToGo
		if field == checklist.QuickWriteOff {
			value = record.Quick.WriteOff
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tgtg      %s\nwriteoff  %s\n", orDash(record.Quick.TooGoodToGo), orDash(record.Quick.WriteOff))
	return nil
}
