package checklist

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/amonks/shiftbook/businessday"
)

func TestRollover_FirstRunSeedsToday(t *testing.T) {
	book, store, _ := newTestBook(t, at("2024-05-02", 7))

	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if !result.Ran || result.Today != "2024-05-02" || result.Previous != "2024-05-01" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Archived {
		t.Fatal("expected nothing to archive on first run")
	}

	last, ok, err := book.LastRollover()
	if err != nil || !ok || last != "2024-05-02" {
		t.Fatalf("expected marker 2024-05-02, got %q ok=%v err=%v", last, ok, err)
	}
	if store.writeCount("2024-05-02") != 1 {
		t.Fatalf("expected today to be written once, got %d", store.writeCount("2024-05-02"))
	}
	if store.writeCount(ArchiveKey) != 0 {
		t.Fatal("expected no archive write without a previous record")
	}
}

func TestRollover_IsIdempotentWithinDay(t *testing.T) {
	book, store, clock := newTestBook(t, at("2024-05-02", 7))

	if _, err := book.Rollover(); err != nil {
		t.Fatalf("first Rollover: %v", err)
	}
	if _, err := book.SetDone("2024-05-02", ShiftMorning, 0, true); err != nil {
		t.Fatalf("SetDone: %v", err)
	}
	writesAfterEdit := store.writeCount("2024-05-02")

	clock.now = at("2024-05-02", 22)
	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("second Rollover: %v", err)
	}
	if result.Ran {
		t.Fatal("expected second rollover on the same day to be a no-op")
	}
	if store.writeCount("2024-05-02") != writesAfterEdit {
		t.Fatal("expected no write to today on the second rollover")
	}
	if store.writeCount(LastResetKey) != 1 {
		t.Fatalf("expected the marker to be written once, got %d", store.writeCount(LastResetKey))
	}

	record, err := book.LoadDay("2024-05-02")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if !record.Tasks.Morning[0].Done {
		t.Fatal("expected the day's progress to survive the no-op rollover")
	}
}

func TestRollover_ArchivesPreviousDay(t *testing.T) {
	book, _, clock := newTestBook(t, at("2024-05-02", 7))

	if _, err := book.Rollover(); err != nil {
		t.Fatalf("Rollover D1: %v", err)
	}
	if _, err := book.SetNote("2024-05-02", "Lieferung Mehl fehlt"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if _, err := book.SetQuick("2024-05-02", QuickTooGoodToGo, "2"); err != nil {
		t.Fatalf("SetQuick: %v", err)
	}
	before, err := book.SetDone("2024-05-02", ShiftEvening, 3, true)
	if err != nil {
		t.Fatalf("SetDone: %v", err)
	}

	clock.now = at("2024-05-03", 6)
	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("Rollover D2: %v", err)
	}
	if !result.Ran || !result.Archived || result.Previous != "2024-05-02" {
		t.Fatalf("unexpected result %+v", result)
	}

	entries, err := book.ListArchive()
	if err != nil {
		t.Fatalf("ListArchive: %v", err)
	}
	if len(entries) != 1 || entries[0].Day != "2024-05-02" {
		t.Fatalf("expected archive entry for 2024-05-02, got %+v", entries)
	}
	if !reflect.DeepEqual(entries[0].Record, before) {
		t.Fatalf("archived record differs:\n got %+v\nwant %+v", entries[0].Record, before)
	}

	today, err := book.LoadDay("2024-05-03")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if today.Note != "" || today.Quick != (Quick{}) {
		t.Fatalf("expected empty note and quick fields, got %+v", today)
	}
	assertAllOpen(t, today)
}

func TestRollover_ReplacesExistingTodayRecord(t *testing.T) {
	book, _, _ := newTestBook(t, at("2024-05-03", 7))

	// Someone browsed forward to today before the rollover ran.
	if _, err := book.SetNote("2024-05-03", "vorab notiert"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	if _, err := book.Rollover(); err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	record, err := book.LoadDay("2024-05-03")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if record.Note != "" {
		t.Fatalf("expected a full re-seed, got note %q", record.Note)
	}
}

func TestRollover_SkippedDaysAreNotArchived(t *testing.T) {
	book, _, clock := newTestBook(t, at("2024-05-01", 7))

	if _, err := book.Rollover(); err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if _, err := book.SetNote("2024-05-01", "Mittwoch"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	clock.now = at("2024-05-04", 7)
	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if result.Archived {
		t.Fatalf("expected no record for %s, got %+v", result.Previous, result)
	}

	entries, err := book.ListArchive()
	if err != nil {
		t.Fatalf("ListArchive: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected the orphaned day to stay out of the archive, got %+v", entries)
	}
	orphan, err := book.LoadDay("2024-05-01")
	if err != nil || orphan.Note != "Mittwoch" {
		t.Fatalf("expected orphaned record to remain under its key, got %+v err=%v", orphan, err)
	}
}

func TestRollover_FailedWriteIsRetried(t *testing.T) {
	book, store, _ := newTestBook(t, at("2024-05-03", 7))
	store.failOn = "2024-05-03"

	if _, err := book.Rollover(); !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, ok, _ := book.LastRollover(); ok {
		t.Fatal("expected marker to stay unwritten after a failed rollover")
	}

	store.failOn = ""
	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("retry Rollover: %v", err)
	}
	if !result.Ran {
		t.Fatal("expected the retry to perform the rollover")
	}
}

func TestRollover_MarkerFailureLeavesStale(t *testing.T) {
	book, store, _ := newTestBook(t, at("2024-05-03", 7))
	store.failOn = LastResetKey

	if _, err := book.Rollover(); !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	store.failOn = ""
	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("retry Rollover: %v", err)
	}
	if !result.Ran {
		t.Fatal("expected the rollover to run again after the marker write failed")
	}
}

func TestRollover_ThreeOClockCutover(t *testing.T) {
	store := newRecordingStore()
	now := time.Date(2024, 5, 3, 1, 30, 0, 0, time.UTC)
	book := New(store, Options{
		Policy: businessday.Policy{CutoverHour: 3, Location: time.UTC},
		Now:    func() time.Time { return now },
	})

	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if result.Today != "2024-05-02" || result.Previous != "2024-05-01" {
		t.Fatalf("unexpected keys under 03:00 cutover: %+v", result)
	}
}

func TestRollover_AcceptsJSONEncodedMarker(t *testing.T) {
	book, store, _ := newTestBook(t, at("2024-05-03", 7))
	if err := store.Set(LastResetKey, []byte(`"2024-05-03"`)); err != nil {
		t.Fatalf("seed marker: %v", err)
	}

	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if result.Ran {
		t.Fatal("expected JSON-encoded marker for today to count as fresh")
	}
}

func TestRollover_ActsOnBusinessDayNotViewedDay(t *testing.T) {
	book, _, _ := newTestBook(t, at("2024-05-03", 7))

	// Viewing and editing another day does not influence the rollover.
	if _, err := book.SetNote("2024-04-20", "alte Notiz"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	result, err := book.Rollover()
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if result.Today != book.BusinessDay() {
		t.Fatalf("expected rollover on %s, got %s", book.BusinessDay(), result.Today)
	}
}
