package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/checklist"
	"github.com/amonks/shiftbook/internal/listflags"
	"github.com/amonks/shiftbook/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse archived days",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived days, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <day>",
	Short: "Show an archived day",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole archive as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runArchiveExport,
}

var (
	archiveListJSON bool
	archiveShowJSON bool
	archiveFormat   string
)

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveExportCmd)

	listflags.AddJSONFlag(archiveListCmd, &archiveListJSON)
	listflags.AddJSONFlag(archiveShowCmd, &archiveShowJSON)
	archiveExportCmd.Flags().StringVar(&archiveFormat, "format", "yaml", "Output format (yaml or json)")
}

type archiveSummary struct {
	Day       businessday.Key `json:"day"`
	Done      int             `json:"done"`
	Total     int             `json:"total"`
	OpenTasks int             `json:"open_tasks"`
	HasNote   bool            `json:"has_note"`
}

func summarizeArchive(entry checklist.ArchiveEntry) archiveSummary {
	visible := checklist.VisibleShifts(entry.Day.Weekday())
	summary := archiveSummary{
		Day:       entry.Day,
		OpenTasks: entry.Record.OpenTasks(visible),
		HasNote:   entry.Record.HasNote(),
	}
	for _, shift := range visible {
		done, total, _ := checklist.Progress(entry.Record.Tasks.List(shift))
		summary.Done += done
		summary.Total += total
	}
	return summary
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	entries, err := current.book.ListArchive()
	if err != nil {
		return err
	}

	summaries := make([]archiveSummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, summarizeArchive(entry))
	}
	if archiveListJSON {
		return encodeJSON(cmd.OutOrStdout(), summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived days.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"DAY", "WEEKDAY", "DONE", "OPEN", "NOTE"}, len(summaries))
	for _, summary := range summaries {
		note := ""
		if summary.HasNote {
			note = "yes"
		}
		builder.AddRow(
			string(summary.Day),
			ui.WeekdayDE(summary.Day.Weekday()),
			fmt.Sprintf("%d/%d", summary.Done, summary.Total),
			strconv.Itoa(summary.OpenTasks),
			note,
		)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	day, err := businessday.ParseKey(strings.TrimSpace(args[0]))
	if err != nil {
		return usageError(err)
	}
	record, ok, err := current.book.ArchivedDay(day)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no archived day %s", day)
	}

	view := buildDayView(day, current.book.BusinessDay(), record, "", false)
	if archiveShowJSON {
		return encodeJSON(cmd.OutOrStdout(), view)
	}
	if err := renderDayView(cmd.OutOrStdout(), view, false); err != nil {
		return err
	}
	if record.HasNote() {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n%s\n", ui.Heading("Übergabe"), record.Note)
	}
	return nil
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	entries, err := current.book.ListArchive()
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(archiveFormat)) {
	case "json":
		return encodeJSON(cmd.OutOrStdout(), entries)
	case "yaml", "yml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encode archive: %w", err)
		}
		return enc.Close()
	default:
		return exitError{code: exitUsage, err: fmt.Errorf("unknown format %q (want yaml or json)", archiveFormat)}
	}
}
