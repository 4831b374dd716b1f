package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/checklist"
	"github.com/amonks/shiftbook/internal/listflags"
	"github.com/amonks/shiftbook/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the checklist of the day",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var checkCmd = &cobra.Command{
	Use:   "check <shift> <n>...",
	Short: "Mark tasks as done",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCheck,
}

var uncheckCmd = &cobra.Command{
	Use:   "uncheck <shift> <n>...",
	Short: "Mark tasks as open again",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runUncheck,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reopen every task of the day from the template",
	Long:  "Replace the day's tasks with a fresh copy of the template. The note and quick fields are kept.",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add or remove tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <shift> <text>...",
	Short: "Add a task to a shift and to the template",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTaskAdd,
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm <shift> <n>",
	Short:   "Remove a task from a shift and from the template (admin mode)",
	Aliases: []string{"remove", "delete"},
	Args:    cobra.ExactArgs(2),
	RunE:    runTaskRemove,
}

var (
	showOpenOnly bool
	showShift    checklist.Shift
	showJSON     bool
)

func init() {
	rootCmd.AddCommand(showCmd, checkCmd, uncheckCmd, resetCmd, taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskRemoveCmd)

	showCmd.Flags().BoolVar(&showOpenOnly, "open", false, "Only list open tasks")
	showCmd.Flags().Var(shiftValue{target: &showShift}, "shift", "Only show one shift (morning, evening, sunday)")
	listflags.AddJSONFlag(showCmd, &showJSON)
}

type taskView struct {
	Number int    `json:"n"`
	Text   string `json:"text"`
	Done   bool   `json:"done"`
}

type shiftView struct {
	Shift   checklist.Shift `json:"shift"`
	Label   string          `json:"label"`
	Done    int             `json:"done"`
	Total   int             `json:"total"`
	Percent int             `json:"percent"`
	Tasks   []taskView      `json:"tasks"`
}

type dayView struct {
	Day       businessday.Key `json:"day"`
	Today     bool            `json:"today"`
	OpenTasks int             `json:"open_tasks"`
	HasNote   bool            `json:"has_note"`
	Note      string          `json:"note"`
	Quick     checklist.Quick `json:"quick"`
	Shifts    []shiftView     `json:"shifts"`
}

// buildDayView prepares a record for display. Sunday tasks are only shown and
// counted on Sundays.
func buildDayView(day, today businessday.Key, record checklist.DayRecord, only checklist.Shift, openOnly bool) dayView {
	visible := checklist.VisibleShifts(day.Weekday())
	view := dayView{
		Day:       day,
		Today:     day == today,
		OpenTasks: record.OpenTasks(visible),
		HasNote:   record.HasNote(),
		Note:      record.Note,
		Quick:     record.Quick,
		Shifts:    make([]shiftView, 0, len(visible)),
	}
	for _, shift := range visible {
		if only != "" && shift != only {
			continue
		}
		items := record.Tasks.List(shift)
		done, total, percent := checklist.Progress(items)
		sv := shiftView{
			Shift:   shift,
			Label:   shift.Label(),
			Done:    done,
			Total:   total,
			Percent: percent,
			Tasks:   make([]taskView, 0, len(items)),
		}
		for i, item := range items {
			if openOnly && item.Done {
				continue
			}
			sv.Tasks = append(sv.Tasks, taskView{Number: i + 1, Text: item.Text, Done: item.Done})
		}
		view.Shifts = append(view.Shifts, sv)
	}
	return view
}

func renderDayView(w io.Writer, view dayView, openOnly bool) error {
	var b strings.Builder

	title := ui.FormatDay(view.Day)
	if view.Today {
		title += " (heute)"
	}
	b.WriteString(ui.Heading(title) + "\n")

	note := "nein"
	if view.HasNote {
		note = "ja"
	}
	openLabel := fmt.Sprintf("Offene Aufgaben: %d", view.OpenTasks)
	if view.OpenTasks > 0 {
		openLabel = ui.Warn(openLabel)
	}
	fmt.Fprintf(&b, "%s  Übergabe: %s\n", openLabel, note)
	fmt.Fprintf(&b, "Too Good To Go: %s  Abschriften: %s\n", orDash(view.Quick.TooGoodToGo), orDash(view.Quick.WriteOff))

	for _, shift := range view.Shifts {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s  %s  %d/%d\n", ui.Heading(shift.Label), ui.ProgressBar(shift.Percent, 20), shift.Done, shift.Total)
		if len(shift.Tasks) == 0 {
			if openOnly && shift.Total > 0 {
				b.WriteString(ui.Muted("  Alles erledigt.") + "\n")
			} else {
				b.WriteString(ui.Muted("  Keine Aufgaben.") + "\n")
			}
			continue
		}
		for _, task := range shift.Tasks {
			box := "[ ]"
			text := task.Text
			if task.Done {
				box = "[x]"
				text = ui.Muted(text)
			}
			fmt.Fprintf(&b, "%4d. %s %s\n", task.Number, box, text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func runShow(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	record, err := current.book.LoadDay(day)
	if err != nil {
		return err
	}
	if showShift == checklist.ShiftSunday && day.Weekday() != time.Sunday {
		fmt.Fprintln(cmd.ErrOrStderr(), "Sunday tasks are only shown on Sundays.")
	}

	view := buildDayView(day, current.book.BusinessDay(), record, showShift, showOpenOnly)
	if showJSON {
		return encodeJSON(cmd.OutOrStdout(), view)
	}
	return renderDayView(cmd.OutOrStdout(), view, showOpenOnly)
}

func runCheck(cmd *cobra.Command, args []string) error {
	return setDone(cmd, args, true)
}

func runUncheck(cmd *cobra.Command, args []string) error {
	return setDone(cmd, args, false)
}

func setDone(cmd *cobra.Command, args []string, done bool) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	shift, err := checklist.ParseShift(args[0])
	if err != nil {
		return usageError(err)
	}
	positions, err := parsePositions(args[1:])
	if err != nil {
		return usageError(err)
	}

	verb := "Checked"
	if !done {
		verb = "Unchecked"
	}
	for _, index := range positions {
		record, err := current.book.SetDone(day, shift, index, done)
		if err != nil {
			return usageError(err)
		}
		item := record.Tasks.List(shift)[index]
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d: %s\n", verb, shift, index+1, item.Text)
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	record, err := current.book.ResetTasks(day)
	if err != nil {
		return err
	}
	count := record.OpenTasks(checklist.VisibleShifts(day.Weekday()))
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s: %d open tasks\n", day, count)
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	shift, err := checklist.ParseShift(args[0])
	if err != nil {
		return usageError(err)
	}

	record, err := current.book.AddTask(day, shift, strings.Join(args[1:], " "))
	if err != nil {
		return usageError(err)
	}
	items := record.Tasks.List(shift)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %d: %s\n", shift, len(items), items[len(items)-1].Text)
	return nil
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	if err := current.requireAdmin(); err != nil {
		return err
	}
	day, err := current.viewedDay()
	if err != nil {
		return err
	}
	shift, err := checklist.ParseShift(args[0])
	if err != nil {
		return usageError(err)
	}
	positions, err := parsePositions(args[1:])
	if err != nil {
		return usageError(err)
	}
	index := positions[0]

	before, err := current.book.LoadDay(day)
	if err != nil {
		return err
	}
	if _, err := current.book.DeleteTask(day, shift, index); err != nil {
		return usageError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %d: %s\n", shift, index+1, before.Tasks.List(shift)[index].Text)
	return nil
}
