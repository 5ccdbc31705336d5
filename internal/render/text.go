package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	textColor  = color.RGBA{R: 51, G: 51, B: 51, A: 255}
	mutedColor = color.RGBA{R: 130, G: 130, B: 130, A: 255}
	frameColor = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Blank returns a white placeholder image carrying the panel title and a
// message. It is what empty data renders to.
func Blank(title, message string, size Size) (*Artifact, error) {
	w, h := size.Width, size.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("blank image: invalid size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// thin frame so the placeholder reads as a chart area
	frame := image.NewUniform(frameColor)
	draw.Draw(img, image.Rect(0, 0, w, 1), frame, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, h-1, w, h), frame, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, 1, h), frame, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w-1, 0, w, h), frame, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	if title != "" {
		drawCentered(img, face, title, 24, textColor)
	}
	if message != "" {
		drawCentered(img, face, message, h/2, mutedColor)
	}

	a, err := imageArtifact(title, img)
	if err != nil {
		return nil, fmt.Errorf("blank image: %w", err)
	}
	a.Empty = true
	a.Note = message
	return a, nil
}

func drawCentered(dst draw.Image, face font.Face, text string, baseline int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	tw := d.MeasureString(text).Ceil()
	x := (dst.Bounds().Dx() - tw) / 2
	if x < 4 {
		x = 4
	}
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(baseline)}
	d.DrawString(text)
}

// annotate draws an axis caption along the bottom edge of an already
// rendered PNG. go-chart bar charts do not draw x axis names.
func annotate(pngBytes []byte, caption string) ([]byte, error) {
	if strings.TrimSpace(caption) == "" {
		return pngBytes, nil
	}
	src, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	b := src.Bounds()
	img := image.NewRGBA(b)
	draw.Draw(img, b, src, b.Min, draw.Src)
	drawCentered(img, basicfont.Face7x13, caption, b.Max.Y-6, textColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
