package checklist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/amonks/shiftbook/businessday"
	"go.uber.org/zap"
)

// ArchiveEntry is a frozen snapshot of a past day.
type ArchiveEntry struct {
	Day    businessday.Key `json:"day" yaml:"day"`
	Record DayRecord       `json:"record" yaml:"record"`
}

func (b *Book) loadArchive() (map[businessday.Key]DayRecord, error) {
	data, ok, err := b.store.Get(ArchiveKey)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	archive := make(map[businessday.Key]DayRecord)
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return archive, nil
	}
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}
	if archive == nil {
		archive = make(map[businessday.Key]DayRecord)
	}
	for day, record := range archive {
		record.Tasks = record.Tasks.normalized()
		archive[day] = record
	}
	return archive, nil
}

func (b *Book) saveArchive(archive map[businessday.Key]DayRecord) error {
	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}
	if err := b.store.Set(ArchiveKey, data); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}

// Archive copies the record stored for key into the archive, replacing any
// earlier snapshot of the same day. It reports false without writing when no
// usable record is stored for key.
func (b *Book) Archive(key businessday.Key) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.archive(key)
}

func (b *Book) archive(key businessday.Key) (bool, error) {
	data, ok, err := b.store.Get(string(key))
	if err != nil {
		return false, fmt.Errorf("load day %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	record, err := DecodeDay(data)
	if err != nil {
		b.logger.Warn("skipping archive of malformed day record",
			zap.String("day", string(key)),
			zap.Error(err),
		)
		return false, nil
	}

	archive, err := b.loadArchive()
	if err != nil {
		if !errors.Is(err, ErrMalformedArchive) {
			return false, err
		}
		if err := b.quarantineArchive(key, err); err != nil {
			return false, err
		}
		archive = make(map[businessday.Key]DayRecord)
	}

	archive[key] = record.Clone()
	if err := b.saveArchive(archive); err != nil {
		return false, err
	}
	return true, nil
}

// quarantineArchive moves an undecodable archive aside so a fresh one can be
// started without losing the original bytes. Earlier quarantined copies are
// never overwritten.
func (b *Book) quarantineArchive(day businessday.Key, cause error) error {
	data, _, err := b.store.Get(ArchiveKey)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	target, err := b.quarantineKey(day)
	if err != nil {
		return err
	}
	if err := b.store.Set(target, data); err != nil {
		return fmt.Errorf("quarantine archive: %w", err)
	}
	b.logger.Warn("moved malformed archive aside",
		zap.String("key", target),
		zap.Error(cause),
	)
	return nil
}

// quarantineKey returns the first free key of ARCHIVE_CORRUPT,
// ARCHIVE_CORRUPT_<day>, ARCHIVE_CORRUPT_<day>_2, and so on.
func (b *Book) quarantineKey(day businessday.Key) (string, error) {
	key := ArchiveCorruptKey
	for n := 1; ; n++ {
		_, exists, err := b.store.Get(key)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", key, err)
		}
		if !exists {
			return key, nil
		}
		key = fmt.Sprintf("%s_%s", ArchiveCorruptKey, day)
		if n > 1 {
			key = fmt.Sprintf("%s_%s_%d", ArchiveCorruptKey, day, n)
		}
	}
}

// ListArchive returns every archived day, most recent first.
func (b *Book) ListArchive() ([]ArchiveEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	archive, err := b.loadArchive()
	if err != nil {
		return nil, err
	}

	entries := make([]ArchiveEntry, 0, len(archive))
	for day, record := range archive {
		entries = append(entries, ArchiveEntry{Day: day, Record: record})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day > entries[j].Day
	})
	return entries, nil
}

// ArchivedDay returns the snapshot stored for key.
func (b *Book) ArchivedDay(key businessday.Key) (DayRecord, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	archive, err := b.loadArchive()
	if err != nil {
		return DayRecord{}, false, err
	}
	record, ok := archive[key]
	return record, ok, nil
}
