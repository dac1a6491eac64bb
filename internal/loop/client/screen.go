package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/dodge/internal/difficulty"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/game"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/particle"
)

const (
	colorBall       uint32 = 0xE53935
	colorBallMark   uint32 = 0x8E0000
	colorFace       uint32 = 0xFFCA28
	colorFaceDetail uint32 = 0x3E2723
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	// On screen or inactivity transitions, do a full terminal clear so UI
	// elements from the previous screen don't persist.
	if c.state.Screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.session != nil && (c.state.Screen == ScreenPlaying || c.state.Screen == ScreenGameOver) {
		c.drawWorld()
	}
	c.canvas.Render(c.chunkWriter, c.profile)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(now)
	return c.chunkWriter.Flush()
}

// drawWorld paints balls, particles and the player onto the canvas.
func (c *Client) drawWorld() {
	for _, b := range c.session.Balls() {
		drawBall(c.canvas, b)
	}
	drawPlayer(c.canvas, c.session.Player(), c.session.Phase() == game.PhaseOver)
	for _, p := range c.session.Particles() {
		drawParticle(c.canvas, p)
	}
}

func drawBall(cv *draw.Canvas, b object.Ball) {
	r := b.Size / 2
	cx, cy := b.X+r, b.Y+r
	cv.FillPolygon(draw.RegularPolygon(cx, cy, r, 10, b.Rotation), colorBall)
	// A wedge that turns with the ball so the spin is visible.
	mark := draw.RegularPolygon(cx, cy, r*0.6, 3, b.Rotation)
	cv.FillPolygon([]draw.Point{{X: cx, Y: cy}, mark[0], mark[1]}, colorBallMark)
}

func drawPlayer(cv *draw.Canvas, p object.Player, hit bool) {
	face := colorFace
	if hit {
		face = colorGameOver
	}
	cv.FillEllipse(p.X, p.Y, p.Width, p.Height, face)
	eye := p.Width / 8
	cv.FillRect(p.X+p.Width*0.28, p.Y+p.Height*0.3, eye, eye, colorFaceDetail)
	cv.FillRect(p.X+p.Width*0.72-eye, p.Y+p.Height*0.3, eye, eye, colorFaceDetail)
	cv.FillRect(p.X+p.Width*0.3, p.Y+p.Height*0.68, p.Width*0.4, eye/2, colorFaceDetail)
}

func drawParticle(cv *draw.Canvas, p particle.Sprite) {
	if p.Alpha == 0 {
		return
	}
	rgb := draw.Fade(uint32(p.Color), p.Alpha, draw.Background)
	half := p.Size / 2
	switch p.Shape {
	case particle.Circle, particle.Heart:
		cv.FillEllipse(p.X-half, p.Y-half, p.Size, p.Size, rgb)
	case particle.Triangle:
		cv.FillPolygon(draw.RegularPolygon(p.X, p.Y, half, 3, p.Rotation), rgb)
	case particle.Star:
		cv.FillPolygon(draw.RegularPolygon(p.X, p.Y, half, 5, p.Rotation), rgb)
	default:
		cv.FillRect(p.X-half, p.Y-half, p.Size, p.Size, rgb)
	}
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(now time.Time) {
	width := c.canvas.TerminalWidth()
	height := c.canvas.TerminalHeight()
	centerX := width / 2
	centerY := height / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch c.state.Screen {
	case ScreenMenu:
		c.drawMenu(centerX, centerY)
	case ScreenPlaying:
		c.drawHUD(width)
		c.drawFloatingTexts(now)
	case ScreenGameOver:
		c.drawHUD(width)
		c.drawFloatingTexts(now)
		c.drawGameOver(centerX, centerY)
	}
}

// writeCentered writes a possibly multi-line block centred on col.
func (c *Client) writeCentered(col, row int, block string) {
	c.chunkWriter.WriteAt(max(col-lipgloss.Width(block)/2, 1), max(row, 1), block)
}

func (c *Client) drawHUD(width int) {
	st := c.session.State()
	s := c.styles
	line := s.hud.Render("Score ") + s.hudValue.Render(fmt.Sprint(st.Score)) +
		s.hud.Render("  Record ") + s.hudValue.Render(fmt.Sprint(st.Record))
	if st.Combo >= config.ComboTrailThreshold {
		line += s.hud.Render("  Combo ") + s.text(fmt.Sprintf("x%d", st.Combo), 0xFF8800, true)
	}
	line += s.hud.Render("  [" + c.session.Profile().Label + "]")

	// HUD rows sit directly above the canvas.
	c.chunkWriter.WriteAt(1, 1-config.HUDRows, line)
	hint := "A/D ←/→ move · 0-9 jump · ESC menu · Q quit"
	if lipgloss.Width(hint) <= width {
		c.chunkWriter.WriteAt(1, 2-config.HUDRows, s.hint.Render(hint))
	}
}

func (c *Client) drawFloatingTexts(now time.Time) {
	for _, t := range c.fx.live(now) {
		col, row := c.canvas.LogicalToTerminal(t.x, t.y)
		text := c.styles.text(t.text, t.color, true)
		if t.banner {
			text = c.styles.banner.Render(text)
		}
		c.writeCentered(col, row, text)
	}
}

func (c *Client) drawMenu(centerX, centerY int) {
	s := c.styles
	var rows []string
	for i, p := range difficulty.All() {
		label := fmt.Sprintf("%d  %-7s record %d", i+1, p.Label, c.state.MenuRecords[p.Tag])
		if p.Tag == c.state.Difficulty {
			rows = append(rows, s.selected.Render(label))
		} else {
			rows = append(rows, label)
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("D O D G E"),
		"",
		fmt.Sprintf("Player: %s   Best %d", c.scores.Player(), c.state.MenuBest),
		"",
		strings.Join(rows, "\n"),
		"",
		s.hint.Render("Press 1-3 to play, Q to quit"),
	)
	panel := s.panel.Render(body)
	c.writeCentered(centerX, centerY-lipgloss.Height(panel)/2, panel)
}

func (c *Client) drawGameOver(centerX, centerY int) {
	s := c.styles
	st := c.session.State()
	lines := []string{
		s.warn.Render("GAME OVER"),
		"",
		fmt.Sprintf("Score  %d", st.Score),
		fmt.Sprintf("Record %d", st.Record),
	}
	if c.session.NewRecord() {
		lines = append(lines, "", s.title.Render("¡NUEVO RÉCORD!"))
	}
	lines = append(lines, "", s.hint.Render("SPACE retry · ESC menu · Q quit"))
	panel := s.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	c.writeCentered(centerX, centerY-lipgloss.Height(panel)/2, panel)
}

func (c *Client) drawInactivityScreen(centerX, centerY int, now time.Time) {
	left := int(config.InactivityDisconnectUser - now.Sub(c.state.lastInput).Seconds())
	body := lipgloss.JoinVertical(lipgloss.Center,
		c.styles.warn.Render("INACTIVITY WARNING"),
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)),
		"",
		c.styles.hint.Render("Press any key to continue"),
	)
	c.writeCentered(centerX, centerY-2, body)
}

func (c *Client) drawShutdownScreen(centerX, centerY int) {
	body := lipgloss.JoinVertical(lipgloss.Center,
		c.styles.warn.Render("SERVER SHUTTING DOWN"),
		"",
		"Your records have been saved.",
		fmt.Sprintf("Disconnecting in %d seconds.", int(max(c.state.shutdownTimer, 0))),
	)
	c.writeCentered(centerX, centerY-2, body)
}
