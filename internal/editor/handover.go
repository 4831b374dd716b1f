package editor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/amonks/shiftbook/internal/strings"
)

// HandoverData is the part of a day record edited as one document: the quick
// fields as TOML frontmatter and the note as the body.
type HandoverData struct {
	// Day is shown in a comment only.
	Day         string
	TooGoodToGo string
	WriteOff    string
	Note        string
}

var handoverTemplate = template.Must(template.New("handover").Parse(`# Übergabe {{ .Day }}
tgtg = {{ printf "%q" .TooGoodToGo }}
writeoff = {{ printf "%q" .WriteOff }}
---
{{ .Note }}
`))

// RenderHandover renders the data as frontmatter plus note body.
func RenderHandover(data HandoverData) (string, error) {
	var buf bytes.Buffer
	if err := handoverTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedHandover is the result of editing a handover document.
type ParsedHandover struct {
	TooGoodToGo string `toml:"tgtg"`
	WriteOff    string `toml:"writeoff"`
	Note        string `toml:"-"`
}

// ParseHandover parses an edited handover document.
func ParseHandover(content string) (*ParsedHandover, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedHandover
	meta, err := toml.Decode(frontmatter, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown field %q: must be tgtg or writeoff", undecoded[0].String())
	}
	parsed.TooGoodToGo = strings.TrimSpace(parsed.TooGoodToGo)
	parsed.WriteOff = strings.TrimSpace(parsed.WriteOff)
	parsed.Note = internalstrings.TrimTrailingNewlines(strings.TrimLeft(body, "\n"))
	return &parsed, nil
}

// EditHandover opens the editor on data and returns the parsed result.
func EditHandover(data HandoverData) (*ParsedHandover, error) {
	content, err := RenderHandover(data)
	if err != nil {
		return nil, err
	}
	edited, err := EditString(content, "sb-handover-*.md")
	if err != nil {
		return nil, err
	}
	return ParseHandover(edited)
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}
