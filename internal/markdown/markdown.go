// Package markdown renders handover notes for the terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/shiftbook/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown for a terminal of the given width, indenting every
// line by indent spaces. Blank input renders as nil. When markdown rendering
// fails the text is word-wrapped instead.
func Render(width, indentBy int, input []byte) []byte {
	value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(string(input)))
	if internalstrings.IsBlank(value) {
		return nil
	}
	if indentBy < 0 {
		indentBy = 0
	}
	renderWidth := width - indentBy
	if renderWidth < 1 {
		renderWidth = 1
	}

	rendered, ok := renderSafely(markdownRenderer(renderWidth), value)
	if !ok {
		rendered = wordwrap.String(value, renderWidth)
	}
	rendered = internalstrings.TrimTrailingNewlines(trimLeadingBlankLines(rendered))
	if internalstrings.IsBlank(rendered) {
		return nil
	}
	if indentBy == 0 {
		return []byte(rendered)
	}
	return []byte(indent.String(rendered, uint(indentBy)))
}

func renderSafely(r renderer, value string) (out string, ok bool) {
	if r == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return "", false
	}
	return formatted, true
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	zero := uint(0)
	style.Document.Margin = &zero
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func trimLeadingBlankLines(value string) string {
	for {
		line, rest, found := strings.Cut(value, "\n")
		if !found || strings.TrimSpace(line) != "" {
			return value
		}
		value = rest
	}
}
