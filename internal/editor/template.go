package editor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/shiftbook/checklist"
	internalstrings "github.com/amonks/shiftbook/internal/strings"
)

const templateHeader = `# Aufgabenvorlage für neue Tage.
# Änderungen gelten ab dem nächsten Tageswechsel oder "sb reset".

`

// RenderTemplateTOML renders a task template for editing.
func RenderTemplateTOML(tpl checklist.Template) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(tpl); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParseTemplateTOML parses an edited task template. Entries are trimmed and
// blank entries dropped; every shift list must be present.
func ParseTemplateTOML(content string) (checklist.Template, error) {
	var tpl checklist.Template
	meta, err := toml.Decode(content, &tpl)
	if err != nil {
		return checklist.Template{}, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return checklist.Template{}, fmt.Errorf("unknown key %q: must be morning, evening or sunday", undecoded[0].String())
	}
	for _, shift := range checklist.Shifts() {
		if !meta.IsDefined(string(shift)) {
			return checklist.Template{}, fmt.Errorf("missing list %q", shift)
		}
	}

	return checklist.Template{
		Morning: cleanEntries(tpl.Morning),
		Evening: cleanEntries(tpl.Evening),
		Sunday:  cleanEntries(tpl.Sunday),
	}, nil
}

// EditTemplate opens the editor on tpl and returns the parsed result.
func EditTemplate(tpl checklist.Template) (checklist.Template, error) {
	content, err := RenderTemplateTOML(tpl)
	if err != nil {
		return checklist.Template{}, err
	}
	edited, err := EditString(content, "sb-template-*.toml")
	if err != nil {
		return checklist.Template{}, err
	}
	return ParseTemplateTOML(edited)
}

func cleanEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = internalstrings.NormalizeWhitespace(entry)
		if strings.TrimSpace(entry) == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}
