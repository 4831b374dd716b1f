package main

import (
	"fmt"
	"os"

	"github.com/amonks/shiftbook/internal/editor"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Show or edit the task template for new days",
}

var templateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the task template as TOML",
	Args:  cobra.NoArgs,
	RunE:  runTemplateShow,
}

var templateEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the task template in $EDITOR, or replace it from --file",
	Args:  cobra.NoArgs,
	RunE:  runTemplateEdit,
}

var templateFromDayCmd = &cobra.Command{
	Use:   "from-day",
	Short: "Use the tasks of the day as the template",
	Args:  cobra.NoArgs,
	RunE:  runTemplateFromDay,
}

var templateFile string

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateShowCmd, templateEditCmd, templateFromDayCmd)

	templateEditCmd.Flags().StringVarP(&templateFile, "file", "f", "", "Read the template from a TOML file instead of opening an editor")
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	tpl, err := current.book.LoadTemplate()
	if err != nil {
		return err
	}
	content, err := editor.RenderTemplateTOML(tpl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), content)
	return err
}

func runTemplateEdit(cmd *cobra.Command, args []string) error {
	if templateFile != "" {
		data, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		tpl, err := editor.ParseTemplateTOML(string(data))
		if err != nil {
			return exitError{code: exitUsage, err: fmt.Errorf("%s: %w", templateFile, err)}
		}
		if err := current.book.SaveTemplate(tpl); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved template: %d morning, %d evening, %d sunday tasks\n", len(tpl.Morning), len(tpl.Evening), len(tpl.Sunday))
		return nil
	}

	if !editor.IsInteractive() {
		return exitError{code: exitUsage, err: fmt.Errorf("template edit needs a terminal; use --file")}
	}
	tpl, err := current.book.LoadTemplate()
	if err != nil {
		return err
	}
	edited, err := editor.EditTemplate(tpl)
	if err != nil {
		return err
	}
	if err := current.book.SaveTemplate(edited); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved template: %d morning, %d evening, %d sunday tasks\n", len(edited.Morning), len(edited.Evening), len(edited.Sunday))
	return nil
}

func runTemplateFromDay(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	record, err := current.book.LoadDay(day)
	if err != nil {
		return err
	}
	if err := current.book.PersistTemplateFrom(record); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved template from %s\n", day)
	return nil
}
