// Package render turns ranked frequencies, year bins and tables into panel
// artifacts: PNG charts, word clouds, placeholder images and raw tables.
//
// Every function here is pure with respect to its inputs. Empty data is not an
// error; it produces an Artifact with Empty set and a labeled placeholder image.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"image"
	"image/png"

	"mediadash/internal/dataset"
)

// ErrInvalidFrequencies is returned when word cloud input holds a
// non-positive count or a repeated key.
var ErrInvalidFrequencies = errors.New("invalid frequencies")

// Kind says which payload an Artifact carries.
type Kind string

const (
	KindImage Kind = "image"
	KindTable Kind = "table"
)

// Size is the pixel size of a rendered image.
type Size struct {
	Width  int
	Height int
}

// Labels are the human-readable texts drawn on a chart.
type Labels struct {
	Title  string
	XLabel string
	YLabel string
}

// Artifact is the output of one panel render.
type Artifact struct {
	PanelID string
	Kind    Kind
	Title   string
	PNG     []byte
	Width   int
	Height  int
	Table   *dataset.Table
	Empty   bool
	Note    string
}

// DataURI embeds the PNG payload for an <img> tag.
func (a *Artifact) DataURI() template.URL {
	if a == nil || len(a.PNG) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(a.PNG))
}

func imageArtifact(title string, img image.Image) (*Artifact, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Artifact{
		Kind:   KindImage,
		Title:  title,
		PNG:    buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}
