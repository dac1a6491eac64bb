package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestFillRectCoversScaledArea(t *testing.T) {
	// 10x5 cells, 10x10 sub-pixels, logical 100x100: 10 units per pixel.
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(20, 30, 20, 20, 0xFF0000)

	for _, p := range [][2]int{{2, 3}, {3, 4}} {
		if rgb, ok := c.Pixel(p[0], p[1]); !ok || rgb != 0xFF0000 {
			t.Errorf("pixel %v = %06x, %v", p, rgb, ok)
		}
	}
	for _, p := range [][2]int{{1, 3}, {4, 3}, {2, 2}, {2, 5}} {
		if _, ok := c.Pixel(p[0], p[1]); ok {
			t.Errorf("pixel %v should be empty", p)
		}
	}
}

func TestFillRectClipsOutside(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(-50, -50, 500, 500, 0x00FF00)
	if rgb, ok := c.Pixel(9, 9); !ok || rgb != 0x00FF00 {
		t.Error("corner pixel not filled")
	}
}

func TestFillEllipse(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.FillEllipse(0, 0, 20, 20, 0x0000FF)
	if _, ok := c.Pixel(10, 10); !ok {
		t.Error("centre not filled")
	}
	if _, ok := c.Pixel(0, 0); ok {
		t.Error("corner should stay outside the circle")
	}
}

func TestFillPolygon(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.FillPolygon(RegularPolygon(10, 10, 8, 8, 0), 0xFFFFFF)
	if _, ok := c.Pixel(10, 10); !ok {
		t.Error("polygon centre not filled")
	}
	if _, ok := c.Pixel(1, 1); ok {
		t.Error("outside pixel filled")
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(0, 0, 0xFF0000)
	c.SetFloat(0, 1, 0xFF0000)

	var out bytes.Buffer
	c.Render(&out, termenv.Ascii)
	if !strings.Contains(out.String(), string(BlockFull)) {
		t.Fatalf("expected a full block in %q", out.String())
	}

	out.Reset()
	c.Render(&out, termenv.Ascii)
	if out.Len() != 0 {
		t.Errorf("unchanged frame re-rendered %q", out.String())
	}

	c.Clear()
	out.Reset()
	c.Render(&out, termenv.Ascii)
	if !strings.HasSuffix(out.String(), " ") {
		t.Errorf("cleared cell not blanked: %q", out.String())
	}

	c.SetFloat(3, 3, 0x00FF00)
	c.ForceRedraw()
	out.Reset()
	c.Render(&out, termenv.Ascii)
	if !strings.Contains(out.String(), string(BlockLowerHalf)) {
		t.Errorf("forced redraw missing cell: %q", out.String())
	}
}

func TestRenderColours(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetFloat(0, 0, 0xFF0000)
	c.SetFloat(0, 1, 0x0000FF)

	var out bytes.Buffer
	c.Render(&out, termenv.TrueColor)
	s := out.String()
	if !strings.Contains(s, "38;2;255;0;0") || !strings.Contains(s, "48;2;0;0;255") {
		t.Errorf("missing truecolor sequences in %q", s)
	}
	if !strings.Contains(s, string(BlockUpperHalf)) {
		t.Errorf("expected upper half block in %q", s)
	}
}

func TestFade(t *testing.T) {
	if got := Fade(0xFFD700, 255, Background); got != 0xFFD700 {
		t.Errorf("opaque fade = %06x", got)
	}
	if got := Fade(0xFFD700, 0, Background); got != Background {
		t.Errorf("transparent fade = %06x", got)
	}
	mid := Fade(0xFFFFFF, 128, Background)
	r := mid >> 16
	if r == 0 || r == 0xFF {
		t.Errorf("half fade of white = %06x", mid)
	}
}

func TestHex(t *testing.T) {
	if got := Hex(0x0a0b0c); got != "#0a0b0c" {
		t.Errorf("Hex = %q", got)
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		term, colorTerm string
		want            termenv.Profile
	}{
		{"xterm-256color", "truecolor", termenv.TrueColor},
		{"xterm-256color", "", termenv.ANSI256},
		{"xterm", "", termenv.ANSI},
		{"dumb", "", termenv.Ascii},
		{"", "", termenv.Ascii},
	}
	for _, tt := range tests {
		if got := ProfileFor(tt.term, tt.colorTerm); got != tt.want {
			t.Errorf("ProfileFor(%q, %q) = %v, want %v", tt.term, tt.colorTerm, got, tt.want)
		}
	}
}

func TestChunkWriterWriteAtMultiline(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(3, 4, "ab\ncd")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[5;5Hab\033[6;5Hcd"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}
