package main

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/amonks/shiftbook/checklist"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "sb" {
		t.Fatalf("expected root command name sb, got %q", rootCmd.Use)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain", errors.New("disk full"), 1},
		{"usage", usageError(fmt.Errorf("check: %w", checklist.ErrTaskIndex)), exitUsage},
		{"admin", errAdminRequired, exitAdmin},
		{"wrapped admin", fmt.Errorf("task rm: %w", errAdminRequired), exitAdmin},
		{"not a usage error", usageError(errors.New("boom")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestUsageErrorKeepsExitErrors(t *testing.T) {
	if got := exitCode(usageError(errAdminRequired)); got != exitAdmin {
		t.Fatalf("expected admin exit code to survive, got %d", got)
	}
	if usageError(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
}

func TestParsePositions(t *testing.T) {
	got, err := parsePositions([]string{"1", " 3 ", "12"})
	if err != nil {
		t.Fatalf("parsePositions: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 2, 11}) {
		t.Fatalf("unexpected positions %v", got)
	}

	for _, bad := range []string{"0", "-1", "eins", ""} {
		if _, err := parsePositions([]string{bad}); !errors.Is(err, checklist.ErrTaskIndex) {
			t.Fatalf("%q: expected ErrTaskIndex, got %v", bad, err)
		}
	}
}

func TestShiftValue(t *testing.T) {
	var shift checklist.Shift
	value := shiftValue{target: &shift}

	if err := value.Set(" Evening "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if shift != checklist.ShiftEvening || value.String() != "evening" {
		t.Fatalf("unexpected shift %q", shift)
	}
	if err := value.Set("night"); !errors.Is(err, checklist.ErrUnknownShift) {
		t.Fatalf("expected ErrUnknownShift, got %v", err)
	}
	if value.Type() != "shift" {
		t.Fatalf("unexpected type %q", value.Type())
	}
}

func testRecord() checklist.DayRecord {
	return checklist.DayRecord{
		Note:  "Ofen 2 spinnt",
		Quick: checklist.Quick{TooGoodToGo: "3"},
		Tasks: checklist.Tasks{
			Morning: []checklist.TaskItem{{Text: "Ofen an", Done: true}, {Text: "Kaffee"}},
			Evening: []checklist.TaskItem{{Text: "Kasse"}},
			Sunday:  []checklist.TaskItem{{Text: "Townhouse"}},
		},
	}
}

func TestBuildDayViewHidesSundayOnWeekdays(t *testing.T) {
	view := buildDayView("2024-05-02", "2024-05-02", testRecord(), "", false)

	if !view.Today || !view.HasNote {
		t.Fatalf("unexpected flags %+v", view)
	}
	if view.OpenTasks != 2 {
		t.Fatalf("expected 2 open tasks without Sunday, got %d", view.OpenTasks)
	}
	if len(view.Shifts) != 2 {
		t.Fatalf("expected morning and evening only, got %d shifts", len(view.Shifts))
	}
	morning := view.Shifts[0]
	if morning.Done != 1 || morning.Total != 2 || morning.Percent != 50 {
		t.Fatalf("unexpected morning progress %+v", morning)
	}
}

func TestBuildDayViewOnSunday(t *testing.T) {
	view := buildDayView("2024-05-05", "2024-05-02", testRecord(), "", false)

	if view.Today {
		t.Fatal("expected a day other than today")
	}
	if view.OpenTasks != 3 || len(view.Shifts) != 3 {
		t.Fatalf("expected Sunday tasks to count, got open=%d shifts=%d", view.OpenTasks, len(view.Shifts))
	}
}

func TestBuildDayViewOpenOnlyKeepsNumbers(t *testing.T) {
	view := buildDayView("2024-05-02", "2024-05-02", testRecord(), checklist.ShiftMorning, true)

	if len(view.Shifts) != 1 {
		t.Fatalf("expected one shift, got %d", len(view.Shifts))
	}
	tasks := view.Shifts[0].Tasks
	if len(tasks) != 1 || tasks[0].Number != 2 || tasks[0].Text != "Kaffee" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if view.Shifts[0].Total != 2 {
		t.Fatalf("expected progress over all tasks, got %+v", view.Shifts[0])
	}
}

func TestRenderDayView(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	view := buildDayView("2024-05-02", "2024-05-02", testRecord(), "", false)
	if err := renderDayView(&buf, view, false); err != nil {
		t.Fatalf("renderDayView: %v", err)
	}

	want := strings.Join([]string{
		"Donnerstag, 02.05.2024 (heute)",
		"Offene Aufgaben: 2  Übergabe: ja",
		"Too Good To Go: 3  Abschriften: —",
		"",
		"Frühschicht  ██████████░░░░░░░░░░  50%  1/2",
		"   1. [x] Ofen an",
		"   2. [ ] Kaffee",
		"",
		"Spätschicht  ░░░░░░░░░░░░░░░░░░░░   0%  0/1",
		"   1. [ ] Kasse",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderDayViewAllDone(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	record := testRecord()
	record.Tasks.Morning[1].Done = true

	var buf bytes.Buffer
	view := buildDayView("2024-05-02", "2024-05-02", record, checklist.ShiftMorning, true)
	if err := renderDayView(&buf, view, true); err != nil {
		t.Fatalf("renderDayView: %v", err)
	}
	if !strings.Contains(buf.String(), "  Alles erledigt.") {
		t.Fatalf("expected all-done message, got:\n%s", buf.String())
	}
}

func TestSummarizeArchive(t *testing.T) {
	summary := summarizeArchive(checklist.ArchiveEntry{Day: "2024-05-02", Record: testRecord()})
	if summary.Done != 1 || summary.Total != 3 || summary.OpenTasks != 2 || !summary.HasNote {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
