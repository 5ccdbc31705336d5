package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

const emptyMessage = "No data for the selected filters"

// Series is one named line of a Line chart.
type Series struct {
	Name   string
	Values []float64
}

func chartPadding() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 28}}
}

// valueRange returns an explicit y range. go-chart refuses zero-width ranges,
// so a flat series still gets [0, 1].
func valueRange(values ...[]float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.1}
}

func barGeometry(width, bars int) (barWidth, spacing int) {
	if bars <= 0 {
		return 40, 20
	}
	slot := float64(width-96) / float64(bars)
	barWidth = int(math.Max(4, math.Min(60, slot*0.7)))
	spacing = int(math.Max(2, math.Min(40, slot*0.3)))
	return barWidth, spacing
}

// Bar renders one bar per category. Zero values draw as zero-height bars;
// only input without categories renders a placeholder.
func Bar(categories []string, values []float64, l Labels, size Size) (*Artifact, error) {
	if len(categories) != len(values) {
		return nil, fmt.Errorf("bar chart: %d categories for %d values", len(categories), len(values))
	}
	if len(values) == 0 {
		return Blank(l.Title, emptyMessage, size)
	}

	bars := make([]chart.Value, len(values))
	fill := chart.GetDefaultColor(0)
	for i, v := range values {
		bars[i] = chart.Value{
			Label: categories[i],
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}
	bw, spacing := barGeometry(size.Width, len(bars))

	bc := chart.BarChart{
		Title:      l.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chartPadding(),
		BarWidth:   bw,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Name:  l.YLabel,
			Range: valueRange(values),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	out, err := annotate(buf.Bytes(), l.XLabel)
	if err != nil {
		return nil, err
	}
	return &Artifact{Kind: KindImage, Title: l.Title, PNG: out, Width: size.Width, Height: size.Height}, nil
}

// Line renders one line per series over a shared categorical x axis, with a
// legend. Series shorter than xLabels are drawn over their own length.
func Line(xLabels []string, series []Series, l Labels, size Size) (*Artifact, error) {
	if len(xLabels) == 0 || len(series) == 0 {
		return Blank(l.Title, emptyMessage, size)
	}

	xs := make([]float64, len(xLabels))
	ticks := make([]chart.Tick, len(xLabels))
	for i, label := range xLabels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	all := make([][]float64, 0, len(series))
	out := make([]chart.Series, 0, len(series))
	for i, s := range series {
		if len(s.Values) > len(xLabels) {
			return nil, fmt.Errorf("line chart: series %q has %d values for %d labels", s.Name, len(s.Values), len(xLabels))
		}
		if len(s.Values) == 0 {
			continue
		}
		col := chart.GetDefaultColor(i)
		out = append(out, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs[:len(s.Values)],
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
		all = append(all, s.Values)
	}
	if len(out) == 0 {
		return Blank(l.Title, emptyMessage, size)
	}

	ch := chart.Chart{
		Title:      l.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chartPadding(),
		XAxis: chart.XAxis{
			Name:  l.XLabel,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(xLabels)) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  l.YLabel,
			Range: valueRange(all...),
		},
		Series: out,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	return &Artifact{Kind: KindImage, Title: l.Title, PNG: buf.Bytes(), Width: size.Width, Height: size.Height}, nil
}
