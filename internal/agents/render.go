package agents

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Render styles accepted by NewRenderer. Any other value is treated as a
// glamour style name or style file path.
const (
	StyleAuto  = "auto"
	StylePlain = "notty"
)

// Renderer turns report markdown into terminal output.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer creates a renderer for style, wrapping at width columns.
func NewRenderer(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width = 80
	}

	var styleOpt glamour.TermRendererOption
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleAuto:
		styleOpt = glamour.WithAutoStyle()
	case "plain", "none", StylePlain:
		styleOpt = glamour.WithStandardStyle(StylePlain)
	default:
		styleOpt = glamour.WithStylePath(style)
	}

	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Renderer{term: term}, nil
}

// Render converts markdown to styled text. On failure it returns the input unchanged.
func (r *Renderer) Render(markdown string) string {
	out, err := r.term.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
