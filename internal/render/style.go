package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Style holds the randomized appearance parameters for one sample. Styles are
// drawn per image so the dataset covers varied print conditions.
type Style struct {
	FontSize   float64
	Foreground color.Color
	Background color.Color
	BlurRadius float64 // 0 disables blur
	Noise      bool
	NoiseAlpha float64
	XJitter    int // extra horizontal offset in px
	YJitter    int // baseline offset in px
}

// randomStyle draws a style within legibility bounds. Foreground and
// background lightness are kept at least 0.4 apart so text never washes out.
func (r *Renderer) randomStyle() Style {
	light := r.rng.Float64() < 0.85 // light background, dark text

	bgL := 0.78 + r.rng.Float64()*0.20
	fgL := 0.05 + r.rng.Float64()*0.30
	if !light {
		bgL, fgL = 1-bgL, 1-fgL
	}

	bg := colorful.Hsl(r.rng.Float64()*360, r.rng.Float64()*0.25, bgL).Clamped()
	fg := colorful.Hsl(r.rng.Float64()*360, r.rng.Float64()*0.60, fgL).Clamped()

	style := Style{
		FontSize:   r.options.MinFontSize + r.rng.Float64()*(r.options.MaxFontSize-r.options.MinFontSize),
		Foreground: toRGBA(fg),
		Background: toRGBA(bg),
		XJitter:    r.rng.Intn(7) - 3,
		YJitter:    r.rng.Intn(7) - 3,
	}

	if r.rng.Float64() < 0.5 {
		style.BlurRadius = 0.4 + r.rng.Float64()*0.9
	}
	if r.rng.Float64() < 0.35 {
		style.Noise = true
		style.NoiseAlpha = 0.03 + r.rng.Float64()*0.05
	}

	return style
}

func toRGBA(c colorful.Color) color.Color {
	cr, cg, cb := c.RGB255()
	return color.RGBA{R: cr, G: cg, B: cb, A: 255}
}
