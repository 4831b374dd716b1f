package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/shiftbook/internal/listflags"
	"github.com/amonks/shiftbook/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the order recipients",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsRecipientsCmd = &cobra.Command{
	Use:   "recipients [address,...]",
	Short: "Show or replace the addresses every order is sent to",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsRecipients,
}

var settingsPatisserieCmd = &cobra.Command{
	Use:   "patisserie [address,...]",
	Short: "Show or replace the addresses patisserie orders are also sent to",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsPatisserie,
}

var staticCmd = &cobra.Command{
	Use:   "static [text]...",
	Short: "Show or replace the static info text",
	Args:  cobra.ArbitraryArgs,
	RunE:  runStatic,
}

var adminCmd = &cobra.Command{
	Use:       "admin [on|off]",
	Short:     "Show or switch admin mode",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runAdmin,
}

var settingsJSON bool

func init() {
	rootCmd.AddCommand(settingsCmd, staticCmd, adminCmd)
	settingsCmd.AddCommand(settingsRecipientsCmd, settingsPatisserieCmd)
	listflags.AddJSONFlag(settingsCmd, &settingsJSON)
}

func printRecipients(w io.Writer, r settings.Recipients) {
	fmt.Fprintf(w, "recipients  %s\n", joinOrDash(r.Recipients))
	fmt.Fprintf(w, "patisserie  %s\n", joinOrDash(r.Patisserie))
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "—"
	}
	return strings.Join(values, ", ")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	r, err := current.settings.Recipients()
	if err != nil {
		return err
	}
	if settingsJSON {
		return encodeJSON(cmd.OutOrStdout(), r)
	}
	printRecipients(cmd.OutOrStdout(), r)
	return nil
}

func runSettingsRecipients(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		r, err := current.settings.Recipients()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), joinOrDash(r.Recipients))
		return nil
	}
	r, err := current.settings.SetRecipients(args[0])
	if err != nil {
		return err
	}
	printRecipients(cmd.OutOrStdout(), r)
	return nil
}

func runSettingsPatisserie(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		r, err := current.settings.Recipients()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), joinOrDash(r.Patisserie))
		return nil
	}
	r, err := current.settings.SetPatisserie(args[0])
	if err != nil {
		return err
	}
	printRecipients(cmd.OutOrStdout(), r)
	return nil
}

func runStatic(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		text, err := current.settings.Static()
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No static text.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	if err := current.settings.SetStatic(strings.Join(args, " ")); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved static text")
	return nil
}

func runAdmin(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := current.settings.SetAdmin(args[0] == "on"); err != nil {
			return err
		}
	}
	on, err := current.settings.Admin()
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Admin mode %s\n", state)
	return nil
}
