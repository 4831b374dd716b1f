package checklist

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ThursdayTask is appended to the default morning list on Thursdays.
const ThursdayTask = "Do: Kekse & Granola einpacken (falls leer)"

// Template lists the task descriptions used to seed a new day.
type Template struct {
	Morning []string `json:"morning" yaml:"morning" toml:"morning"`
	Evening []string `json:"evening" yaml:"evening" toml:"evening"`
	Sunday  []string `json:"sunday" yaml:"sunday" toml:"sunday"`
}

// List returns the descriptions for shift.
func (t Template) List(shift Shift) []string {
	switch shift {
	case ShiftMorning:
		return t.Morning
	case ShiftEvening:
		return t.Evening
	case ShiftSunday:
		return t.Sunday
	default:
		return nil
	}
}

// Seed builds a task list from the template with every item open.
func (t Template) Seed() Tasks {
	seed := func(texts []string) []TaskItem {
		items := make([]TaskItem, 0, len(texts))
		for _, text := range texts {
			items = append(items, TaskItem{Text: text})
		}
		return items
	}
	return Tasks{
		Morning: seed(t.Morning),
		Evening: seed(t.Evening),
		Sunday:  seed(t.Sunday),
	}
}

func (t Template) normalized() Template {
	if t.Morning == nil {
		t.Morning = []string{}
	}
	if t.Evening == nil {
		t.Evening = []string{}
	}
	if t.Sunday == nil {
		t.Sunday = []string{}
	}
	return t
}

// TemplateFrom derives a template from a day's task texts, dropping
// completion state.
func TemplateFrom(record DayRecord) Template {
	texts := func(items []TaskItem) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.Text)
		}
		return out
	}
	return Template{
		Morning: texts(record.Tasks.Morning),
		Evening: texts(record.Tasks.Evening),
		Sunday:  texts(record.Tasks.Sunday),
	}
}

// DefaultTemplate returns the built-in task lists. The Thursday-only morning
// task is included when weekday is Thursday.
func DefaultTemplate(weekday time.Weekday) Template {
	morning := []string{
		"Produktionsliste (Sandwiches)",
		"Backwaren einräumen",
		"Temperaturliste",
		"Kühlschranklicht an, aufräumen & auffüllen",
		"Freisitz aufschließen & reinigen",
		"Kaffeebereich vorbereiten",
		"MHD checken (Eier 1W vor Ablauf kühlen)",
		"Schild & Mülleimer raus",
		"Bestellungen packen & beschriften",
		"Safebag (×4) holen",
		"Mio Bestellung packen",
		"Fougasse schneiden",
		"Ringe einweichen & spülen",
		"Backwaren nachbestellen",
		"Übergabe für Spätschicht",
	}
	if weekday == time.Thursday {
		morning = append(morning, ThursdayTask)
	}
	evening := []string{
		"Backwaren nachbestellen!",
		"Bleche & Besteck spülen (inkl. Maschine)",
		"Körbe säubern & neu einlegen",
		"Auslagen/Scheiben/Kühlschränke putzen",
		"Schild & Müll rein, Freisitz abschließen",
		"Kaffeemaschine reinigen & Bohnen auffüllen",
		"Brotschneider säubern",
		"Kehren inkl. Vorziehen",
		"Reinigungsliste abhaken",
		"Foodsharing (nach Abschrieb!)",
		"Müll & Flaschen runter",
		"Kassenabrechnung + Safebag in Tresor",
		"Auffüllen: Verpackungen/Becher/Handschuhe/Kaffeeecke",
		"Alle Oberflächen abwischen",
	}
	sunday := []string{
		"Townhouse ausliefern (+ Unterschriften Woche)",
		"TGTG Tüten am Montag buchen (trotzdem Abschrieb)",
	}
	return Template{Morning: morning, Evening: evening, Sunday: sunday}
}

// LoadTemplate returns the stored template. When none is stored, or the
// stored one cannot be decoded, the default for the current business day is
// stored and returned. The returned template is always usable; a non-nil
// error only reports that the store could not be read or the default could
// not be written.
func (b *Book) LoadTemplate() (Template, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadTemplate()
}

func (b *Book) loadTemplate() (Template, error) {
	data, ok, err := b.store.Get(TemplateKey)
	if err != nil {
		b.logger.Warn("read template failed, using default", zap.Error(err))
		return DefaultTemplate(b.BusinessDay().Weekday()), fmt.Errorf("read template: %w", err)
	}
	if ok {
		tpl, err := DecodeTemplate(data)
		if err == nil {
			return tpl, nil
		}
		b.logger.Warn("discarding malformed template", zap.Error(err))
	}

	tpl := DefaultTemplate(b.BusinessDay().Weekday())
	if err := b.saveTemplate(tpl); err != nil {
		return tpl, err
	}
	b.logger.Debug("stored default template", zap.String("weekday", b.BusinessDay().Weekday().String()))
	return tpl, nil
}

// SaveTemplate overwrites the stored template.
func (b *Book) SaveTemplate(tpl Template) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveTemplate(tpl)
}

func (b *Book) saveTemplate(tpl Template) error {
	data, err := EncodeTemplate(tpl)
	if err != nil {
		return err
	}
	if err := b.store.Set(TemplateKey, data); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// PersistTemplateFrom stores the task texts of record as the template for
// every day seeded from now on.
func (b *Book) PersistTemplateFrom(record DayRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveTemplate(TemplateFrom(record))
}

// template loads the template for seeding, logging instead of failing.
func (b *Book) template() Template {
	tpl, err := b.loadTemplate()
	if err != nil {
		b.logger.Warn("template store unavailable", zap.Error(err))
	}
	return tpl
}
