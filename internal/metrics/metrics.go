package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mediadash/internal/dataset"
	"mediadash/internal/models"
)

var (
	// PanelRendersTotal counts pipeline runs per panel and outcome.
	PanelRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediadash_panel_renders_total",
			Help: "Total panel renders by panel, kind and outcome",
		},
		[]string{"panel", "kind", "outcome"},
	)

	// PanelRenderDuration tracks how long a full filter, aggregate, rank and
	// render pass takes.
	PanelRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediadash_panel_render_duration_seconds",
			Help:    "Panel render duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)
)

var (
	panelViewDesc = prometheus.NewDesc(
		"mediadash_panel_views_total",
		"Persisted panel render count by outcome",
		[]string{"panel", "outcome"},
		nil,
	)
	cacheHitsDesc = prometheus.NewDesc(
		"mediadash_dataset_cache_hits_total",
		"Dataset cache lookups served from memory",
		nil, nil,
	)
	cacheMissesDesc = prometheus.NewDesc(
		"mediadash_dataset_cache_misses_total",
		"Dataset cache lookups that read from disk",
		nil, nil,
	)
	cacheFailuresDesc = prometheus.NewDesc(
		"mediadash_dataset_cache_load_failures_total",
		"Dataset loads that failed",
		nil, nil,
	)
	cacheEntriesDesc = prometheus.NewDesc(
		"mediadash_dataset_cache_entries",
		"Datasets currently held in memory",
		nil, nil,
	)
)

// RecordRender records the outcome and duration of one panel render.
func RecordRender(panel, kind, outcome string, duration time.Duration) {
	PanelRendersTotal.WithLabelValues(panel, kind, outcome).Inc()
	PanelRenderDuration.WithLabelValues(kind).Observe(duration.Seconds())
	RecordPanelView(panel, outcome)
}

// CacheStatser is implemented by *dataset.Cache.
type CacheStatser interface {
	Stats() dataset.CacheStats
}

// CacheCollector reads dataset cache counters on each scrape.
type CacheCollector struct {
	cache CacheStatser
}

// NewCacheCollector creates a collector for the given cache.
func NewCacheCollector(cache CacheStatser) *CacheCollector {
	return &CacheCollector{cache: cache}
}

// Describe sends the metric descriptors to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cacheHitsDesc
	ch <- cacheMissesDesc
	ch <- cacheFailuresDesc
	ch <- cacheEntriesDesc
}

// Collect emits the current cache counters.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(cacheHitsDesc, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(cacheMissesDesc, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(cacheFailuresDesc, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(s.Entries))
}

// PanelViewStore reads persisted panel view counts. Implemented by *db.DB.
type PanelViewStore interface {
	GetAllPanelViews(ctx context.Context) ([]models.PanelView, error)
}

// PanelViewCollector is a custom Prometheus collector that reads panel view
// counts from the database on each scrape.
type PanelViewCollector struct {
	store PanelViewStore
}

// NewPanelViewCollector creates a collector backed by store.
func NewPanelViewCollector(store PanelViewStore) *PanelViewCollector {
	return &PanelViewCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *PanelViewCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- panelViewDesc
}

// Collect queries the database for all panel views and emits them as counters.
func (c *PanelViewCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	views, err := c.store.GetAllPanelViews(ctx)
	if err != nil {
		slog.Error("failed to collect panel view metrics", "error", err)
		return
	}
	for _, v := range views {
		ch <- prometheus.MustNewConstMetric(
			panelViewDesc,
			prometheus.CounterValue,
			float64(v.Count),
			v.PanelID,
			v.Outcome,
		)
	}
}

// Recorder accumulates panel view counts in memory until a flusher drains them.
type Recorder struct {
	mu     sync.Mutex
	counts map[models.PanelViewKey]int64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{counts: make(map[models.PanelViewKey]int64)}
}

// Record adds one view of panel with the given outcome.
func (r *Recorder) Record(panel, outcome string) {
	r.mu.Lock()
	r.counts[models.PanelViewKey{PanelID: panel, Outcome: outcome}]++
	r.mu.Unlock()
}

// Drain returns the accumulated counts and resets the recorder.
func (r *Recorder) Drain() map[models.PanelViewKey]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.counts
	r.counts = make(map[models.PanelViewKey]int64)
	return out
}

// Restore merges counts back after a failed flush so they are retried.
func (r *Recorder) Restore(counts map[models.PanelViewKey]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, n := range counts {
		r.counts[k] += n
	}
}

// Pending returns the number of distinct counters waiting to be flushed.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts)
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collectors and, when store is non-nil, enables
// the panel view recorder. Must be called once at startup.
func Init(cache CacheStatser, store PanelViewStore) {
	recorderOnce.Do(func() {
		Register(prometheus.DefaultRegisterer, cache, store)
		if store != nil {
			recorder = NewRecorder()
		}
	})
}

// Register adds the collectors to reg. store may be nil.
func Register(reg prometheus.Registerer, cache CacheStatser, store PanelViewStore) {
	if cache != nil {
		reg.MustRegister(NewCacheCollector(cache))
	}
	if store != nil {
		reg.MustRegister(NewPanelViewCollector(store))
	}
}

// DefaultRecorder returns the recorder enabled by Init, or nil.
func DefaultRecorder() *Recorder {
	return recorder
}

// RecordPanelView records a panel view outcome for the next flush.
func RecordPanelView(panel, outcome string) {
	if recorder == nil {
		return
	}
	recorder.Record(panel, outcome)
}
