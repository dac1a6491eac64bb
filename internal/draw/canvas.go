package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/muesli/termenv"
)

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. It scales from logical coordinates to terminal
// pixels and only re-emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int      // Actual terminal columns
	termHeight     int      // Actual terminal rows
	subPixelHeight int      // termHeight * 2
	pixels         []uint32 // [y * termWidth + x], 0 when unset, else setBit|0xRRGGBB
	prev           []cell   // Cells as last rendered, nil forces a full redraw

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets used to centre the render area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	intersectionBuf []float64
	scaledBuf       []Point
	seqCache        map[colorKey]string
}

const setBit = 1 << 24

type cell struct {
	top, bottom uint32
}

type colorKey struct {
	rgb     uint32
	bg      bool
	profile termenv.Profile
}

// NewScaledCanvas creates a canvas that maps logicalWidth x logicalHeight
// onto termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		seqCache:      make(map[colorKey]string),
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]uint32, c.subPixelHeight*termWidth)
		c.prev = nil
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prev = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }

func (c *Canvas) OffsetRow() int { return c.offsetRow }

func (c *Canvas) TerminalWidth() int { return c.termWidth }

func (c *Canvas) TerminalHeight() int { return c.termHeight }

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual sub-pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, rgb uint32) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = setBit | rgb&0xFFFFFF
	}
}

// Pixel reports the colour at sub-pixel (x, y).
func (c *Canvas) Pixel(x, y int) (rgb uint32, ok bool) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0, false
	}
	v := c.pixels[y*c.termWidth+x]
	return v & 0xFFFFFF, v&setBit != 0
}

// SetFloat sets a pixel using logical coordinates.
func (c *Canvas) SetFloat(x, y float64, rgb uint32) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), rgb)
}

// FillRect fills a logical rectangle. Even tiny rectangles cover at least
// one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, rgb uint32) {
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Ceil((x+w)*c.scaleX))-1, x0)
	y1 := max(int(math.Ceil((y+h)*c.scaleY))-1, y0)
	for py := max(y0, 0); py <= min(y1, c.subPixelHeight-1); py++ {
		for px := max(x0, 0); px <= min(x1, c.termWidth-1); px++ {
			c.pixels[py*c.termWidth+px] = setBit | rgb&0xFFFFFF
		}
	}
}

// FillEllipse fills the ellipse inscribed in a logical rectangle.
func (c *Canvas) FillEllipse(x, y, w, h float64, rgb uint32) {
	cx, cy := (x+w/2)*c.scaleX, (y+h/2)*c.scaleY
	rx, ry := w/2*c.scaleX, h/2*c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}
	if rx < 0.5 || ry < 0.5 {
		c.setPixel(int(cx), int(cy), rgb)
		return
	}
	for py := max(int(math.Floor(cy-ry)), 0); py <= min(int(math.Ceil(cy+ry)), c.subPixelHeight-1); py++ {
		dy := (float64(py) + 0.5 - cy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for px := max(int(math.Ceil(cx-half-0.5)), 0); px <= min(int(math.Floor(cx+half-0.5)), c.termWidth-1); px++ {
			c.pixels[py*c.termWidth+px] = setBit | rgb&0xFFFFFF
		}
	}
}

// FillPolygon fills a polygon given in logical coordinates using a
// scanline pass in pixel space.
func (c *Canvas) FillPolygon(points []Point, rgb uint32) {
	if len(points) < 3 {
		return
	}
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections
		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i] - 0.5)); x <= int(math.Floor(intersections[i+1]-0.5)); x++ {
				c.setPixel(x, y, rgb)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render writes every changed cell using half-block characters coloured
// for profile. Cells that became empty are blanked.
func (c *Canvas) Render(w io.Writer, profile termenv.Profile) {
	c.renderBuf.Reset()
	full := c.prev == nil
	if full {
		c.prev = make([]cell, c.termWidth*c.termHeight)
	}

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if !full && c.prev[idx] == cur {
				continue
			}
			if full && cur == (cell{}) {
				continue
			}
			c.prev[idx] = cur
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			c.writeCell(cur, profile)
		}
	}

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) writeCell(cur cell, profile termenv.Profile) {
	top, bottom := cur.top&setBit != 0, cur.bottom&setBit != 0
	var ch rune
	var fg, bg string
	switch {
	case top && bottom && cur.top == cur.bottom:
		ch, fg = BlockFull, c.sequence(cur.top, false, profile)
	case top && bottom:
		ch, fg, bg = BlockUpperHalf, c.sequence(cur.top, false, profile), c.sequence(cur.bottom, true, profile)
	case top:
		ch, fg = BlockUpperHalf, c.sequence(cur.top, false, profile)
	case bottom:
		ch, fg = BlockLowerHalf, c.sequence(cur.bottom, false, profile)
	default:
		c.renderBuf.WriteByte(' ')
		return
	}
	styled := fg != "" || bg != ""
	if fg != "" {
		c.renderBuf.WriteString("\033[" + fg + "m")
	}
	if bg != "" {
		c.renderBuf.WriteString("\033[" + bg + "m")
	}
	c.renderBuf.WriteRune(ch)
	if styled {
		c.renderBuf.WriteString("\033[0m")
	}
}

// sequence returns the SGR parameters for a colour, cached per profile.
func (c *Canvas) sequence(v uint32, bg bool, profile termenv.Profile) string {
	key := colorKey{rgb: v & 0xFFFFFF, bg: bg, profile: profile}
	if s, ok := c.seqCache[key]; ok {
		return s
	}
	s := profile.Color(Hex(key.rgb)).Sequence(bg)
	c.seqCache[key] = s
	return s
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position relative to the canvas.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}
