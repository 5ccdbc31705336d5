// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"mediadash/internal/config"
	"mediadash/internal/db"
)

// Fixture file names written by DataDir.
const (
	KeywordsCSV = "keywords.csv"
	EntitiesCSV = "entities.csv"
	ArticlesCSV = "articles.csv"
)

// KeywordsContent is a keyword summary with one column per outlet.
const KeywordsContent = `Keyword,Detik,CNBC,Tribun
PLTS,120,80,40
PLTB,30,25,10
energi surya,60,20,15
`

// EntitiesContent holds NER output. Jokowi totals 5 across two rows and
// Bahlil 1, so a min count of 2 drops Bahlil.
const EntitiesContent = `Entity,NER_Label,Counts
Jokowi,B-PER,3
PLN,B-ORG,4
Jokowi,B-PER,2
Bahlil,B-PER,1
Arifin,B-PER,2
Pertamina,B-ORG,2
`

// ArticlesContent holds one row per article.
const ArticlesContent = `Title,Year,Segment
a,2018,detikFinance
b,2018,detikNews
c,2019,detikFinance
d,2021,detikFinance
e,2023,
f,1999,detikNews
`

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// DataDir writes the standard fixture datasets into a temporary directory.
func DataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, KeywordsCSV, KeywordsContent)
	WriteFile(t, dir, EntitiesCSV, EntitiesContent)
	WriteFile(t, dir, ArticlesCSV, ArticlesContent)
	return dir
}

// Dashboard returns a validated layout over the DataDir fixtures with one
// panel of each kind plus a grouped histogram.
func Dashboard(t *testing.T) *config.DashboardConfig {
	t.Helper()
	cfg := &config.DashboardConfig{Sections: []config.SectionConfig{{
		ID:    "overview",
		Title: "Overview",
		Panels: []config.PanelConfig{
			{ID: "keywords", Kind: config.KindKeywordSummary, Title: "Keyword Across Media", Dataset: KeywordsCSV,
				KeyColumn: "Keyword", Series: []string{"Detik", "CNBC", "Tribun"}, XLabel: "Keyword", YLabel: "Counts"},
			{ID: "actors", Kind: config.KindEntityCloud, Title: "Key Actors", Dataset: EntitiesCSV,
				EntityColumn: "Entity", LabelColumn: "NER_Label", CountColumn: "Counts", MinCount: 2},
			{ID: "articles", Kind: config.KindYearHistogram, Title: "Articles", Dataset: ArticlesCSV,
				YearColumn: "Year", XLabel: "Year", YLabel: "Number of Articles", Note: "Fixture data."},
			{ID: "segments", Kind: config.KindYearHistogram, Title: "Segments", Dataset: ArticlesCSV,
				YearColumn: "Year", GroupBy: "Segment"},
		},
	}}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fixture dashboard invalid: %v", err)
	}
	return cfg
}

// TestDB creates a test database connection and returns a cleanup function.
// Uses TEST_DATABASE_URL and skips the test when it is unset.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM panel_views")
}
