package draw

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Background is the colour faded particles blend towards.
const Background uint32 = 0x000000

// Hex formats 0xRRGGBB as "#rrggbb".
func Hex(rgb uint32) string {
	return fmt.Sprintf("#%06x", rgb&0xFFFFFF)
}

// Fade blends rgb towards bg by the given opacity (255 keeps rgb, 0 gives bg).
// Blending happens in Lab space so dim particles keep their hue.
func Fade(rgb uint32, alpha uint8, bg uint32) uint32 {
	switch alpha {
	case 255:
		return rgb & 0xFFFFFF
	case 0:
		return bg & 0xFFFFFF
	}
	blended := toColorful(bg).BlendLab(toColorful(rgb), float64(alpha)/255).Clamped()
	r, g, b := blended.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func toColorful(rgb uint32) colorful.Color {
	return colorful.Color{
		R: float64(rgb>>16&0xFF) / 255,
		G: float64(rgb>>8&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}
}
