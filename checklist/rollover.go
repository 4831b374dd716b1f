package checklist

import (
	"fmt"
	"strings"

	"github.com/amonks/shiftbook/businessday"
	"go.uber.org/zap"
)

// RolloverResult describes one invocation of Rollover.
type RolloverResult struct {
	// Today is the business day the rollover acted on.
	Today businessday.Key
	// Previous is the day that was archived. Empty when Ran is false.
	Previous businessday.Key
	// Ran is false when the rollover had already happened today.
	Ran bool
	// Archived is true when a record for Previous existed and was archived.
	Archived bool
}

// LastRollover returns the business day of the most recent rollover.
func (b *Book) LastRollover() (businessday.Key, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRollover()
}

func (b *Book) lastRollover() (businessday.Key, bool, error) {
	data, ok, err := b.store.Get(LastResetKey)
	if err != nil {
		return "", false, fmt.Errorf("read rollover marker: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	// Older stores kept the marker JSON-encoded.
	value := strings.Trim(strings.TrimSpace(string(data)), `"`)
	return businessday.Key(value), value != "", nil
}

// Rollover archives the previous business day and seeds a fresh record for
// today, once per business day. Later calls on the same business day do
// nothing. The marker is written last, so a failed write leaves the rollover
// pending and the next call retries it from the start.
//
// Only the single preceding day is archived; records of days on which the
// rollover never ran stay under their own keys.
func (b *Book) Rollover() (RolloverResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	today := b.policy.KeyFor(now)
	result := RolloverResult{Today: today}

	last, ok, err := b.lastRollover()
	if err != nil {
		return result, err
	}
	if ok && last == today {
		return result, nil
	}

	previous := b.policy.Previous(now)
	result.Previous = previous

	archived, err := b.archive(previous)
	if err != nil {
		return result, fmt.Errorf("archive %s: %w", previous, err)
	}
	result.Archived = archived

	if err := b.saveDay(today, b.seed()); err != nil {
		return result, err
	}

	if err := b.store.Set(LastResetKey, []byte(today)); err != nil {
		return result, fmt.Errorf("write rollover marker: %w", err)
	}
	result.Ran = true

	b.logger.Info("rolled over business day",
		zap.String("today", string(today)),
		zap.String("archived", string(previous)),
		zap.Bool("had_record", archived),
	)
	return result, nil
}
