package render

import (
	"fmt"
	"image"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const stackDPI = 96

// pixels converts a pixel count to plot length at stackDPI.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / stackDPI
}

// stackedBars draws one bar per year built from each group's count on top of
// the previous group. Heights are absolute article counts on a shared y axis.
func stackedBars(h HistogramData, labels []string, l Labels, size Size) (*Artifact, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("stacked histogram: invalid size %dx%d", size.Width, size.Height)
	}

	p := plot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Legend.Top = true

	bw, _ := barGeometry(size.Width, len(h.Years))
	var below *plotter.BarChart
	for g, name := range h.Groups {
		values := make(plotter.Values, len(h.Years))
		for i := range h.Years {
			values[i] = float64(h.Counts[i][g])
		}
		bars, err := plotter.NewBarChart(values, pixels(bw))
		if err != nil {
			return nil, fmt.Errorf("stacked histogram %s: %w", name, err)
		}
		bars.Color = chart.GetDefaultColor(g)
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(name, bars)
		below = bars
	}

	var peak int64
	xys := make(plotter.XYs, len(h.Years))
	totals := make([]string, len(h.Years))
	for i, n := range h.Totals {
		xys[i] = plotter.XY{X: float64(i), Y: float64(n)}
		totals[i] = strconv.FormatInt(n, 10)
		peak = max(peak, n)
	}
	counts, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: totals})
	if err != nil {
		return nil, fmt.Errorf("stacked histogram labels: %w", err)
	}
	for i := range counts.TextStyle {
		counts.TextStyle[i].XAlign = draw.XCenter
	}
	counts.Offset = vg.Point{Y: vg.Points(3)}
	p.Add(counts)

	p.NominalX(labels...)
	p.Y.Min = 0
	p.Y.Max = float64(peak) * 1.15

	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	c := vgimg.NewWith(vgimg.UseImage(img), vgimg.UseDPI(stackDPI))
	p.Draw(draw.New(c))

	a, err := imageArtifact(l.Title, c.Image())
	if err != nil {
		return nil, fmt.Errorf("render stacked histogram: %w", err)
	}
	return a, nil
}
