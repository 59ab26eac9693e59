// Package render rasterizes text labels into training images. Drawing uses
// x/image opentype faces; style variation (color, blur, noise) covers the
// print conditions an OCR model will meet in scanned documents.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"math/rand"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/noise"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"codeberg.org/kakha/kaglyph/internal/fontset"
)

// Options bounds the rendered canvas and the style randomization.
type Options struct {
	Height      int     // final image height in px
	MaxWidth    int     // widest canvas allowed before truncation kicks in
	Padding     int     // horizontal padding either side of the text
	MinFontSize float64 // style randomization lower bound
	MaxFontSize float64 // style randomization upper bound

	// FloorFontSize is the smallest size the fit fallback may step down to
	// before truncating the label instead.
	FloorFontSize float64
}

// DefaultOptions returns canvas parameters tuned for TrOCR-style line
// recognition (64px line height).
func DefaultOptions() *Options {
	return &Options{
		Height:        64,
		MaxWidth:      1024,
		Padding:       10,
		MinFontSize:   34,
		MaxFontSize:   52,
		FloorFontSize: 18,
	}
}

// Renderer draws labels into images. It owns a rand source for style draws
// and is not safe for concurrent use; give each worker its own Renderer.
type Renderer struct {
	options *Options
	rng     *rand.Rand
}

// NewRenderer creates a renderer with the given options (nil for defaults).
func NewRenderer(options *Options, seed int64) *Renderer {
	if options == nil {
		options = DefaultOptions()
	}
	return &Renderer{
		options: options,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Render rasterizes text with the given font and a freshly drawn style. The
// returned label is the text actually drawn: when even the floor font size
// cannot fit the full text, the label is truncated rune-wise and the caller
// must record the truncated form.
func (r *Renderer) Render(text string, fnt *fontset.Font) (image.Image, string, error) {
	if text == "" {
		return nil, "", fmt.Errorf("cannot render empty text")
	}

	style := r.randomStyle()
	return r.RenderStyled(text, fnt, style)
}

// RenderStyled rasterizes text with an explicit style. Exposed separately so
// the retry path can re-render with reduced parameters, and so tests can pin
// the style.
func (r *Renderer) RenderStyled(text string, fnt *fontset.Font, style Style) (image.Image, string, error) {
	label, face, width, err := r.fit(text, fnt, style.FontSize)
	if err != nil {
		return nil, "", err
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil() + 2*verticalPad

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(style.Foreground),
		Face: face,
		Dot:  fixed.P(r.options.Padding+style.XJitter, verticalPad+ascent+style.YJitter),
	}
	drawer.DrawString(label)

	out := image.Image(img)
	if style.BlurRadius > 0 {
		out = blur.Gaussian(out, style.BlurRadius)
	}
	if style.Noise {
		grain := noise.Generate(width, height, &noise.Options{
			NoiseFn:    noise.Gaussian,
			Monochrome: true,
		})
		out = blend.Opacity(out, grain, style.NoiseAlpha)
	}

	// Normalize to the configured line height, keeping aspect ratio.
	if r.options.Height > 0 && height != r.options.Height {
		out = imaging.Resize(out, 0, r.options.Height, imaging.Lanczos)
	}

	return out, label, nil
}

const verticalPad = 6

// fit finds a face size (and possibly a truncated label) such that the drawn
// string stays inside MaxWidth. Preference order: requested size, stepped-down
// sizes to the floor, then rune truncation at the floor size.
func (r *Renderer) fit(text string, fnt *fontset.Font, size float64) (string, font.Face, int, error) {
	for ; size >= r.options.FloorFontSize; size -= 4 {
		face, err := fnt.NewFace(size)
		if err != nil {
			return "", nil, 0, err
		}
		if w := r.measure(face, text); w <= r.options.MaxWidth {
			return text, face, w, nil
		}
		face.Close()
	}

	// Floor size still overflows: truncate the label.
	face, err := fnt.NewFace(r.options.FloorFontSize)
	if err != nil {
		return "", nil, 0, err
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes)
		if w := r.measure(face, candidate); w <= r.options.MaxWidth {
			return candidate, face, w, nil
		}
	}

	face.Close()
	return "", nil, 0, fmt.Errorf("text %q does not fit a %dpx canvas at any size", text, r.options.MaxWidth)
}

// measure returns the canvas width needed for text at the given face.
func (r *Renderer) measure(face font.Face, text string) int {
	drawer := &font.Drawer{Face: face}
	return drawer.MeasureString(text).Ceil() + 2*r.options.Padding
}
