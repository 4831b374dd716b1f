package checklist

import (
	"fmt"

	"github.com/amonks/shiftbook/businessday"
	internalstrings "github.com/amonks/shiftbook/internal/strings"
	"go.uber.org/zap"
)

// NewDayRecord returns a fresh record seeded from tpl: empty note and quick
// fields, every task open.
func NewDayRecord(tpl Template) DayRecord {
	return DayRecord{Tasks: tpl.Seed()}
}

// Seed builds a fresh record from the current template.
func (b *Book) Seed() DayRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seed()
}

func (b *Book) seed() DayRecord {
	return NewDayRecord(b.template())
}

// LoadDay returns the record stored for key. A missing or malformed record is
// replaced by a fresh seed; the malformed case is logged, never returned.
// Loading does not store the seed. The only error is a failed store read.
func (b *Book) LoadDay(key businessday.Key) (DayRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadDay(key)
}

func (b *Book) loadDay(key businessday.Key) (DayRecord, error) {
	data, ok, err := b.store.Get(string(key))
	if err != nil {
		return DayRecord{}, fmt.Errorf("load day %s: %w", key, err)
	}
	if !ok {
		return b.seed(), nil
	}

	record, err := DecodeDay(data)
	if err != nil {
		b.logger.Warn("discarding malformed day record",
			zap.String("day", string(key)),
			zap.Error(err),
		)
		return b.seed(), nil
	}
	return record, nil
}

// SaveDay overwrites the record stored for key.
func (b *Book) SaveDay(key businessday.Key, record DayRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveDay(key, record)
}

func (b *Book) saveDay(key businessday.Key, record DayRecord) error {
	data, err := EncodeDay(record)
	if err != nil {
		return err
	}
	if err := b.store.Set(string(key), data); err != nil {
		return fmt.Errorf("save day %s: %w", key, err)
	}
	return nil
}

// update loads the record for key, applies fn and saves the result, holding
// the lock throughout.
func (b *Book) update(key businessday.Key, fn func(record *DayRecord) error) (DayRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updateLocked(key, fn)
}

func (b *Book) updateLocked(key businessday.Key, fn func(record *DayRecord) error) (DayRecord, error) {
	record, err := b.loadDay(key)
	if err != nil {
		return DayRecord{}, err
	}
	if err := fn(&record); err != nil {
		return DayRecord{}, err
	}
	if err := b.saveDay(key, record); err != nil {
		return DayRecord{}, err
	}
	return record, nil
}

// ResetTasks replaces the day's tasks with a fresh seed from the template.
// The note and quick fields are kept.
func (b *Book) ResetTasks(key businessday.Key) (DayRecord, error) {
	return b.update(key, func(record *DayRecord) error {
		record.Tasks = b.template().Seed()
		return nil
	})
}

// SetDone marks the task at index (zero-based) in shift as done or open.
func (b *Book) SetDone(key businessday.Key, shift Shift, index int, done bool) (DayRecord, error) {
	return b.update(key, func(record *DayRecord) error {
		items, err := taskList(record, shift)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(*items) {
			return fmt.Errorf("%w: %s has %d tasks, got position %d", ErrTaskIndex, shift, len(*items), index+1)
		}
		(*items)[index].Done = done
		return nil
	})
}

// ToggleTask flips the completion state of the task at index in shift.
func (b *Book) ToggleTask(key businessday.Key, shift Shift, index int) (DayRecord, error) {
	return b.update(key, func(record *DayRecord) error {
		items, err := taskList(record, shift)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(*items) {
			return fmt.Errorf("%w: %s has %d tasks, got position %d", ErrTaskIndex, shift, len(*items), index+1)
		}
		(*items)[index].Done = !(*items)[index].Done
		return nil
	})
}

// AddTask appends an open task to shift and makes the edited lists the
// template for future days.
func (b *Book) AddTask(key businessday.Key, shift Shift, text string) (DayRecord, error) {
	text = internalstrings.NormalizeWhitespace(text)
	if text == "" {
		return DayRecord{}, ErrEmptyTask
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	record, err := b.updateLocked(key, func(record *DayRecord) error {
		items, err := taskList(record, shift)
		if err != nil {
			return err
		}
		*items = append(*items, TaskItem{Text: text})
		return nil
	})
	if err != nil {
		return DayRecord{}, err
	}
	if err := b.saveTemplate(TemplateFrom(record)); err != nil {
		return record, err
	}
	return record, nil
}

// DeleteTask removes the task at index from shift and makes the edited lists
// the template for future days.
func (b *Book) DeleteTask(key businessday.Key, shift Shift, index int) (DayRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	record, err := b.updateLocked(key, func(record *DayRecord) error {
		items, err := taskList(record, shift)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(*items) {
			return fmt.Errorf("%w: %s has %d tasks, got position %d", ErrTaskIndex, shift, len(*items), index+1)
		}
		*items = append((*items)[:index:index], (*items)[index+1:]...)
		return nil
	})
	if err != nil {
		return DayRecord{}, err
	}
	if err := b.saveTemplate(TemplateFrom(record)); err != nil {
		return record, err
	}
	return record, nil
}

// SetNote replaces the day's handover note.
func (b *Book) SetNote(key businessday.Key, note string) (DayRecord, error) {
	note = internalstrings.NormalizeNewlines(note)
	return b.update(key, func(record *DayRecord) error {
		record.Note = note
		return nil
	})
}

// SetQuick replaces one of the day's quick fields.
func (b *Book) SetQuick(key businessday.Key, field QuickField, value string) (DayRecord, error) {
	return b.update(key, func(record *DayRecord) error {
		switch field {
		case QuickTooGoodToGo:
			record.Quick.TooGoodToGo = value
		case QuickWriteOff:
			record.Quick.WriteOff = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownQuickField, field)
		}
		return nil
	})
}

func taskList(record *DayRecord, shift Shift) (*[]TaskItem, error) {
	items := record.Tasks.ref(shift)
	if items == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShift, shift)
	}
	return items, nil
}
