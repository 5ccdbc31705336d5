// Package panel runs the filter, aggregate, rank and render pipeline for one
// dashboard panel and holds the per-panel controls that parameterize it.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"mediadash/internal/config"
	"mediadash/internal/dataset"
	"mediadash/internal/frequency"
	"mediadash/internal/logging"
	"mediadash/internal/metrics"
	"mediadash/internal/models"
	"mediadash/internal/render"
)

// ErrUnknownKind is returned for a panel kind the pipeline cannot render.
var ErrUnknownKind = errors.New("unknown panel kind")

// Pipeline renders panels from datasets held in a shared cache. It keeps no
// per-request state, so one Pipeline serves every session.
type Pipeline struct {
	cache     *dataset.Cache
	dataDir   string
	chartSize render.Size
	cloudSize render.Size
	logger    *slog.Logger
}

// NewPipeline creates a pipeline reading datasets relative to dataDir.
func NewPipeline(cache *dataset.Cache, dataDir string, chartSize, cloudSize render.Size, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cache:     cache,
		dataDir:   dataDir,
		chartSize: chartSize,
		cloudSize: cloudSize,
		logger:    logger,
	}
}

// Series is one named line of a keyword summary.
type Series struct {
	Name   string  `json:"name"`
	Values []int64 `json:"values"`
}

// Data is the computed, not yet rasterized, result of a panel.
type Data struct {
	PanelID    string                `json:"panel_id"`
	Kind       string                `json:"kind"`
	Controls   Controls              `json:"controls"`
	Categories []string              `json:"categories,omitempty"`
	Series     []Series              `json:"series,omitempty"`
	Totals     []frequency.Entry     `json:"totals,omitempty"`
	Entries    []frequency.Entry     `json:"entries,omitempty"`
	Histogram  *render.HistogramData `json:"histogram,omitempty"`

	// rows is the table shown for Raw and ShowTable
	rows *dataset.Table
}

// Rows returns the raw rows behind the result: the filtered dataset for
// keyword summaries and histograms, the ranked entities for clouds.
func (d *Data) Rows() *dataset.Table {
	return d.rows
}

func (p *Pipeline) load(cfg config.PanelConfig) (*dataset.Table, error) {
	return p.cache.GetOrLoad(filepath.Join(p.dataDir, cfg.Dataset))
}

// Compute runs filter, aggregate and rank for cfg without drawing anything.
func (p *Pipeline) Compute(ctx context.Context, cfg config.PanelConfig, ctl Controls) (*Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ctl.Validate(); err != nil {
		return nil, err
	}
	t, err := p.load(cfg)
	if err != nil {
		return nil, err
	}

	d := &Data{PanelID: cfg.ID, Kind: cfg.Kind, Controls: ctl}
	switch cfg.Kind {
	case config.KindKeywordSummary:
		err = keywordSummary(d, t, cfg, ctl)
	case config.KindEntityCloud:
		err = entityCloud(d, t, cfg, ctl)
	case config.KindYearHistogram:
		err = yearHistogram(d, t, cfg, ctl)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("panel %s: %w", cfg.ID, err)
	}
	return d, nil
}

func keywordSummary(d *Data, t *dataset.Table, cfg config.PanelConfig, ctl Controls) error {
	d.rows = t
	// raw view shows the file as loaded
	if ctl.ChartType == ChartRaw {
		return nil
	}
	keys, err := t.Strings(cfg.KeyColumn)
	if err != nil {
		return err
	}
	d.Categories = keys
	for _, col := range cfg.Series {
		vals, err := frequency.Counts(t, col)
		if err != nil {
			return err
		}
		d.Series = append(d.Series, Series{Name: col, Values: vals})
	}
	totals, err := frequency.SumColumns(t, cfg.Series...)
	if err != nil {
		return err
	}
	d.Totals = totals.Entries()
	return nil
}

func entityCloud(d *Data, t *dataset.Table, cfg config.PanelConfig, ctl Controls) error {
	filtered, err := dataset.Filter(t, dataset.Eq(cfg.LabelColumn, ctl.Category.Label()))
	if err != nil {
		return err
	}
	freq, err := frequency.Aggregate(filtered, cfg.EntityColumn, cfg.CountColumn, cfg.MinCount)
	if err != nil {
		return err
	}
	d.Entries = frequency.Rank(freq, ctl.TopN)

	rows, err := entriesTable(cfg, d.Entries)
	if err != nil {
		return err
	}
	d.rows = rows
	return nil
}

func yearHistogram(d *Data, t *dataset.Table, cfg config.PanelConfig, ctl Controls) error {
	filtered, err := dataset.Filter(t, dataset.Between(cfg.YearColumn, int64(ctl.StartYear), int64(ctl.EndYear)))
	if err != nil {
		return err
	}
	years, err := filtered.Ints(cfg.YearColumn)
	if err != nil {
		return err
	}
	var groups []string
	if cfg.GroupBy != "" {
		if groups, err = filtered.Strings(cfg.GroupBy); err != nil {
			return err
		}
	}
	h, err := render.BinYears(years, groups, ctl.StartYear, ctl.EndYear)
	if err != nil {
		return err
	}
	d.Histogram = &h
	d.rows = filtered
	return nil
}

// entriesTable turns ranked entries back into an Entity/Counts table.
func entriesTable(cfg config.PanelConfig, entries []frequency.Entry) (*dataset.Table, error) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Key, strconv.FormatInt(e.Count, 10)}
	}
	return dataset.NewTable(cfg.ID, []string{cfg.EntityColumn, cfg.CountColumn}, rows)
}

// Render runs the full pipeline for cfg and draws the result. Errors are
// local to the panel; callers show them in place of the artifact.
func (p *Pipeline) Render(ctx context.Context, cfg config.PanelConfig, ctl Controls) (*render.Artifact, error) {
	start := time.Now()
	log := logging.FromContext(ctx)
	if log == slog.Default() {
		log = p.logger
	}
	log = log.With("panel", cfg.ID, "render_id", uuid.NewString())

	a, rows, err := p.render(ctx, cfg, ctl)
	elapsed := time.Since(start)

	outcome := models.OutcomeRendered
	switch {
	case err != nil:
		outcome = models.OutcomeError
	case a.Empty:
		outcome = models.OutcomeEmpty
	}
	metrics.RecordRender(cfg.ID, cfg.Kind, outcome, elapsed)

	if err != nil {
		log.Warn("panel render failed", "kind", cfg.Kind, "duration", elapsed, "error", err)
		return nil, err
	}
	a.PanelID = cfg.ID
	if a.Note == "" {
		a.Note = cfg.Note
	}
	log.Debug("panel rendered", "kind", cfg.Kind, "rows", rows, "outcome", outcome, "duration", elapsed)
	return a, nil
}

func (p *Pipeline) render(ctx context.Context, cfg config.PanelConfig, ctl Controls) (*render.Artifact, int, error) {
	d, err := p.Compute(ctx, cfg, ctl)
	if err != nil {
		return nil, 0, err
	}
	rows := 0
	if d.rows != nil {
		rows = d.rows.Len()
	}

	l := render.Labels{Title: cfg.Title, XLabel: cfg.XLabel, YLabel: cfg.YLabel}
	var a *render.Artifact
	switch cfg.Kind {
	case config.KindKeywordSummary:
		a, err = p.drawKeywordSummary(d, l, ctl)
	case config.KindEntityCloud:
		a, err = render.WordCloud(d.Entries, cfg.Title, p.cloudSize)
		if err == nil && ctl.ShowTable {
			a.Table = d.rows
		}
	case config.KindYearHistogram:
		if ctl.ChartType == ChartRaw {
			a = render.TableArtifact(cfg.Title, d.rows)
			break
		}
		a, err = render.Histogram(*d.Histogram, l, p.chartSize)
		if err == nil && ctl.ShowTable {
			a.Table = d.rows
		}
	}
	if err != nil {
		return nil, rows, fmt.Errorf("panel %s: %w", cfg.ID, err)
	}
	return a, rows, nil
}

func (p *Pipeline) drawKeywordSummary(d *Data, l render.Labels, ctl Controls) (*render.Artifact, error) {
	switch ctl.ChartType {
	case ChartRaw:
		return render.TableArtifact(l.Title, d.rows), nil
	case ChartBar:
		names := make([]string, len(d.Totals))
		values := make([]float64, len(d.Totals))
		for i, e := range d.Totals {
			names[i] = e.Key
			values[i] = float64(e.Count)
		}
		return render.Bar(names, values, render.Labels{
			Title:  "Total Articles Produced Per Media",
			XLabel: "Media",
			YLabel: "Total Articles",
		}, p.chartSize)
	default:
		series := make([]render.Series, len(d.Series))
		for i, s := range d.Series {
			vals := make([]float64, len(s.Values))
			for j, v := range s.Values {
				vals[j] = float64(v)
			}
			series[i] = render.Series{Name: s.Name, Values: vals}
		}
		return render.Line(d.Categories, series, l, p.chartSize)
	}
}

// Export returns the rows behind the panel for download.
func (p *Pipeline) Export(ctx context.Context, cfg config.PanelConfig, ctl Controls) ([]byte, error) {
	d, err := p.Compute(ctx, cfg, ctl)
	if err != nil {
		return nil, err
	}
	return render.ExportXLSX(d.rows, cfg.Title)
}
