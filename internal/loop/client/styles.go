package client

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/dodge/internal/draw"
)

// styles holds the lipgloss styles of one connection. Each connection has
// its own renderer so remote terminals get their own colour profile.
type styles struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	hud      lipgloss.Style
	hudValue lipgloss.Style
	hint     lipgloss.Style
	panel    lipgloss.Style
	warn     lipgloss.Style
	selected lipgloss.Style
	banner   lipgloss.Style
}

func newStyles(w io.Writer, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700")),
		hud:      r.NewStyle().Foreground(lipgloss.Color("#B0BEC5")),
		hudValue: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		hint:     r.NewStyle().Faint(true),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF8800")).
			Padding(0, 2),
		warn:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF1744")),
		selected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00E676")),
		banner:   r.NewStyle().Bold(true).Padding(0, 1),
	}
}

// text renders s in the given colour.
func (st styles) text(s string, rgb uint32, bold bool) string {
	return st.renderer.NewStyle().Bold(bold).Foreground(lipgloss.Color(draw.Hex(rgb))).Render(s)
}
