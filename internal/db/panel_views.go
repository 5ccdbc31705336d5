package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"mediadash/internal/models"
)

const upsertPanelView = `
	INSERT INTO panel_views (panel_id, outcome, count, last_seen_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (panel_id, outcome) DO UPDATE
	SET count = panel_views.count + EXCLUDED.count, last_seen_at = NOW()
`

// AddPanelViews adds a batch of counts in one round trip. Zero and negative
// counts are skipped.
func (d *DB) AddPanelViews(ctx context.Context, counts map[models.PanelViewKey]int64) error {
	keys := make([]models.PanelViewKey, 0, len(counts))
	for k, n := range counts {
		if k.PanelID == "" || k.Outcome == "" {
			return fmt.Errorf("%w: %+v", ErrInvalidPanelView, k)
		}
		if n > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	// Stable lock order across concurrent flushes
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PanelID != keys[j].PanelID {
			return keys[i].PanelID < keys[j].PanelID
		}
		return keys[i].Outcome < keys[j].Outcome
	})

	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(upsertPanelView, k.PanelID, k.Outcome, counts[k])
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin panel views: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert panel views: %w", err)
	}
	return tx.Commit(ctx)
}

// GetAllPanelViews returns all panel view rows for metrics export.
func (d *DB) GetAllPanelViews(ctx context.Context) ([]models.PanelView, error) {
	rows, err := d.Pool.Query(ctx, `SELECT panel_id, outcome, count, last_seen_at FROM panel_views ORDER BY panel_id, outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.PanelView
	for rows.Next() {
		var v models.PanelView
		if err := rows.Scan(&v.PanelID, &v.Outcome, &v.Count, &v.LastSeenAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
