// Package settings stores the shop-wide presentation settings kept next to
// the checklist: order recipients, the dashboard's static info text and the
// admin switch.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amonks/shiftbook/internal/kv"
	internalstrings "github.com/amonks/shiftbook/internal/strings"
	"go.uber.org/zap"
)

// Store keys, relative to the store namespace.
const (
	RecipientsKey = "CFG"
	StaticKey     = "STATIC"
	AdminKey      = "ADMIN"
)

// Recipients lists the addresses an order is sent to.
type Recipients struct {
	// Recipients always receive the order.
	Recipients []string `json:"recipients" toml:"recipients"`
	// Patisserie additionally receives orders flagged for the patisserie.
	Patisserie []string `json:"patisserie" toml:"patisserie"`
}

// DefaultRecipients returns the placeholder addresses used until the shop
// configures its own.
func DefaultRecipients() Recipients {
	return Recipients{
		Recipients: []string{"baeckerei@example.org", "backverkauf@example.org"},
		Patisserie: []string{"patisserie@example.org"},
	}
}

// Settings reads and writes the settings entries.
type Settings struct {
	store    kv.Store
	defaults Recipients
	logger   *zap.Logger
}

// New returns settings backed by store. Lists missing from the stored
// recipients fall back to defaults.
func New(store kv.Store, defaults Recipients, logger *zap.Logger) *Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.Recipients == nil && defaults.Patisserie == nil {
		defaults = DefaultRecipients()
	}
	return &Settings{store: store, defaults: defaults, logger: logger}
}

// Recipients returns the stored recipient lists. A list that was never set
// uses the default; a list explicitly set to empty stays empty.
func (s *Settings) Recipients() (Recipients, error) {
	data, ok, err := s.store.Get(RecipientsKey)
	if err != nil {
		return s.copyDefaults(), fmt.Errorf("read recipients: %w", err)
	}
	if !ok {
		return s.copyDefaults(), nil
	}

	var stored Recipients
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("ignoring malformed recipient settings", zap.Error(err))
		return s.copyDefaults(), nil
	}
	if stored.Recipients == nil {
		stored.Recipients = append([]string(nil), s.defaults.Recipients...)
	}
	if stored.Patisserie == nil {
		stored.Patisserie = append([]string(nil), s.defaults.Patisserie...)
	}
	return stored, nil
}

// SetRecipients replaces the base recipient list from a comma separated value.
func (s *Settings) SetRecipients(list string) (Recipients, error) {
	return s.updateRecipients(func(r *Recipients) {
		r.Recipients = internalstrings.SplitList(list)
	})
}

// SetPatisserie replaces the patisserie list from a comma separated value.
func (s *Settings) SetPatisserie(list string) (Recipients, error) {
	return s.updateRecipients(func(r *Recipients) {
		r.Patisserie = internalstrings.SplitList(list)
	})
}

func (s *Settings) updateRecipients(fn func(r *Recipients)) (Recipients, error) {
	current, err := s.Recipients()
	if err != nil {
		return Recipients{}, err
	}
	fn(&current)

	data, err := json.Marshal(current)
	if err != nil {
		return Recipients{}, fmt.Errorf("marshal recipients: %w", err)
	}
	if err := s.store.Set(RecipientsKey, data); err != nil {
		return Recipients{}, fmt.Errorf("save recipients: %w", err)
	}
	return current, nil
}

func (s *Settings) copyDefaults() Recipients {
	return Recipients{
		Recipients: append([]string{}, s.defaults.Recipients...),
		Patisserie: append([]string{}, s.defaults.Patisserie...),
	}
}

// Static returns the dashboard's static info text.
func (s *Settings) Static() (string, error) {
	fields, err := s.staticFields()
	if err != nil {
		return "", err
	}
	text, _ := fields["text"].(string)
	return text, nil
}

// SetStatic replaces the static info text. Other fields of the entry are kept.
func (s *Settings) SetStatic(text string) error {
	fields, err := s.staticFields()
	if err != nil {
		return err
	}
	fields["text"] = internalstrings.NormalizeNewlines(text)

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal static text: %w", err)
	}
	if err := s.store.Set(StaticKey, data); err != nil {
		return fmt.Errorf("save static text: %w", err)
	}
	return nil
}

func (s *Settings) staticFields() (map[string]any, error) {
	data, ok, err := s.store.Get(StaticKey)
	if err != nil {
		return nil, fmt.Errorf("read static text: %w", err)
	}
	fields := make(map[string]any)
	if !ok {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		s.logger.Warn("ignoring malformed static text", zap.Error(err))
		return make(map[string]any), nil
	}
	return fields, nil
}

// Admin reports whether admin mode is on. Only the stored value "1" enables it.
func (s *Settings) Admin() (bool, error) {
	data, ok, err := s.store.Get(AdminKey)
	if err != nil {
		return false, fmt.Errorf("read admin mode: %w", err)
	}
	return ok && strings.TrimSpace(string(data)) == "1", nil
}

// SetAdmin switches admin mode.
func (s *Settings) SetAdmin(on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	if err := s.store.Set(AdminKey, []byte(value)); err != nil {
		return fmt.Errorf("save admin mode: %w", err)
	}
	return nil
}
