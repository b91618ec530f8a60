package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/youruser/lordeck/internal/deck"
	"github.com/youruser/lordeck/internal/metadata"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorCode    = lipgloss.Color("#3B82F6")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	countStyle = lipgloss.NewStyle().Bold(true).Width(4).Align(lipgloss.Right)
	codeStyle  = lipgloss.NewStyle().Foreground(colorCode)
	nameStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Text writes d as a styled list, one "count x code name" line per card,
// followed by the deck code. md may be nil.
func Text(w io.Writer, d *deck.Deck, md *metadata.Metadata) error {
	p, err := Build(d, md)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d cards, version %d", d.Size(), p.Version)))
	b.WriteString("\n")
	for _, cc := range p.Cards {
		line := countStyle.Render(fmt.Sprintf("%dx", cc.Count)) + " " + codeStyle.Render(cc.Code)
		if m, ok := p.MatchedCards[cc.Code]; ok && m.Name != "" {
			line += " " + nameStyle.Render(m.Name)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(p.Code + "\n")
	_, err = io.WriteString(w, b.String())
	return err
}
