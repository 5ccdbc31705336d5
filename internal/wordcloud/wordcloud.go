// Package wordcloud lays out weighted words on a canvas without overlap and
// rasterizes them with the Go Regular font.
//
// Layout is deterministic: words are placed heaviest first along an
// Archimedean spiral that starts at the canvas center, and the same input
// always produces the same placements.
package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Word is one entry of the cloud. Weight must be positive.
type Word struct {
	Text   string
	Weight float64
}

// Placement is where a word ended up and at which size.
type Placement struct {
	Text  string
	Size  float64
	Rect  image.Rectangle
	Color color.Color
}

// Options controls canvas size and font scaling.
type Options struct {
	Width       int
	Height      int
	MinFontSize float64
	MaxFontSize float64
	Padding     int
	Background  color.Color
	Palette     []color.Color
}

// ErrInvalidOptions is returned for a canvas or font range that cannot hold text.
var ErrInvalidOptions = errors.New("invalid word cloud options")

// viridis-like ramp, dark to light, on a white background.
var defaultPalette = []color.Color{
	color.RGBA{R: 68, G: 1, B: 84, A: 255},
	color.RGBA{R: 59, G: 82, B: 139, A: 255},
	color.RGBA{R: 33, G: 145, B: 140, A: 255},
	color.RGBA{R: 39, G: 173, B: 129, A: 255},
	color.RGBA{R: 94, G: 201, B: 98, A: 255},
	color.RGBA{R: 190, G: 170, B: 30, A: 255},
}

// DefaultOptions returns options sized for a width x height canvas.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:       width,
		Height:      height,
		MinFontSize: 8,
		MaxFontSize: math.Max(12, float64(height)/4),
		Padding:     2,
		Background:  color.White,
		Palette:     defaultPalette,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.MinFontSize <= 0 || o.MaxFontSize < o.MinFontSize {
		return fmt.Errorf("%w: font sizes %.1f..%.1f", ErrInvalidOptions, o.MinFontSize, o.MaxFontSize)
	}
	return nil
}

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
	fontErr    error
)

func regularFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return parsedFont, fontErr
}

// faces caches one face per rounded font size for a single layout pass.
type faces struct {
	font  *opentype.Font
	cache map[float64]font.Face
}

func (f *faces) get(size float64) (font.Face, error) {
	if face, ok := f.cache[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	f.cache[size] = face
	return face, nil
}

func (f *faces) close() {
	for _, face := range f.cache {
		_ = face.Close()
	}
}

// Layout places words and returns their positions. Words that cannot fit even
// at the minimum font size are left out.
func Layout(words []Word, opt Options) ([]Placement, error) {
	placements, fs, err := layout(words, opt)
	if err != nil {
		return nil, err
	}
	fs.close()
	return placements, nil
}

// Render lays out words and draws them onto a new image.
func Render(words []Word, opt Options) (image.Image, error) {
	placements, fs, err := layout(words, opt)
	if err != nil {
		return nil, err
	}
	defer fs.close()

	img := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	bg := opt.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, p := range placements {
		face, err := fs.get(p.Size)
		if err != nil {
			return nil, fmt.Errorf("wordcloud face %.0f: %w", p.Size, err)
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(p.Color),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(p.Rect.Min.X + opt.Padding),
				Y: fixed.I(p.Rect.Min.Y+opt.Padding) + face.Metrics().Ascent,
			},
		}
		d.DrawString(p.Text)
	}
	return img, nil
}

func layout(words []Word, opt Options) ([]Placement, *faces, error) {
	if err := opt.validate(); err != nil {
		return nil, nil, err
	}
	f, err := regularFont()
	if err != nil {
		return nil, nil, fmt.Errorf("wordcloud font: %w", err)
	}
	fs := &faces{font: f, cache: map[float64]font.Face{}}

	ordered := make([]Word, 0, len(words))
	var maxWeight float64
	for _, w := range words {
		if w.Text == "" || w.Weight <= 0 {
			continue
		}
		ordered = append(ordered, w)
		maxWeight = math.Max(maxWeight, w.Weight)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Weight > ordered[j].Weight })

	palette := opt.Palette
	if len(palette) == 0 {
		palette = defaultPalette
	}

	bounds := image.Rect(0, 0, opt.Width, opt.Height)
	var placed []Placement
	for i, w := range ordered {
		size := fontSize(w.Weight/maxWeight, opt)
		for {
			face, err := fs.get(size)
			if err != nil {
				fs.close()
				return nil, nil, fmt.Errorf("wordcloud face %.0f: %w", size, err)
			}
			if r, ok := findSpot(textBox(face, w.Text, opt.Padding), bounds, placed); ok {
				placed = append(placed, Placement{
					Text:  w.Text,
					Size:  size,
					Rect:  r,
					Color: palette[i%len(palette)],
				})
				break
			}
			if size <= opt.MinFontSize {
				break
			}
			size = math.Max(opt.MinFontSize, math.Floor(size*0.8))
		}
	}
	return placed, fs, nil
}

// fontSize maps a relative weight in (0, 1] onto the font range. The square
// root keeps mid-weight words readable next to the heaviest one.
func fontSize(rel float64, opt Options) float64 {
	return math.Round(opt.MinFontSize + (opt.MaxFontSize-opt.MinFontSize)*math.Sqrt(rel))
}

func textBox(face font.Face, text string, pad int) image.Point {
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	return image.Pt(adv.Ceil()+2*pad, (m.Ascent+m.Descent).Ceil()+2*pad)
}

// findSpot walks an Archimedean spiral outward from the center and returns the
// first rectangle of the given size that stays inside bounds and overlaps
// nothing already placed.
func findSpot(size image.Point, bounds image.Rectangle, placed []Placement) (image.Rectangle, bool) {
	if size.X > bounds.Dx() || size.Y > bounds.Dy() {
		return image.Rectangle{}, false
	}
	cx, cy := float64(bounds.Dx())/2, float64(bounds.Dy())/2
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())
	limit := math.Hypot(cx, cy*aspect)

	const step = 0.1
	for theta := 0.0; ; theta += step {
		r := 1.5 * theta
		if r > limit {
			return image.Rectangle{}, false
		}
		x := cx + r*math.Cos(theta)
		y := cy + r*math.Sin(theta)/aspect
		origin := image.Pt(int(math.Round(x))-size.X/2, int(math.Round(y))-size.Y/2)
		rect := image.Rectangle{Min: origin, Max: origin.Add(size)}
		if !rect.In(bounds) {
			continue
		}
		if !collides(rect, placed) {
			return rect, true
		}
	}
}

func collides(r image.Rectangle, placed []Placement) bool {
	for _, p := range placed {
		if r.Overlaps(p.Rect) {
			return true
		}
	}
	return false
}
