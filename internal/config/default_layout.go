package config

var outletSeries = []string{"Detik", "CNBC", "Tribun"}

func articleHistogram(id, outlet, topic, dataset, note string) PanelConfig {
	return PanelConfig{
		ID:      id,
		Kind:    KindYearHistogram,
		Title:   outlet + " Analysis: Number of " + topic + " Articles",
		Outlet:  outlet,
		Topic:   topic,
		Dataset: dataset,
		XLabel:  "Year",
		YLabel:  "Number of Articles",
		Note:    note,
	}
}

func segmentHistogram(id, outlet, topic, dataset, note string) PanelConfig {
	p := articleHistogram(id, outlet, topic, dataset, note)
	p.Title = outlet + " Analysis: Articles by Segment"
	p.GroupBy = "Segment"
	return p
}

func entityCloud(id, title, outlet, topic, dataset string, minCount int64, note string) PanelConfig {
	return PanelConfig{
		ID:       id,
		Kind:     KindEntityCloud,
		Title:    title,
		Outlet:   outlet,
		Topic:    topic,
		Dataset:  dataset,
		MinCount: minCount,
		Note:     note,
	}
}

// DefaultDashboard returns the layout used when no layout file exists. It
// mirrors the published dashboard: an overall corpus section followed by the
// PLTS and PLTB coverage sections.
func DefaultDashboard() *DashboardConfig {
	cfg := &DashboardConfig{Sections: []SectionConfig{
		{
			ID:          "overview",
			Title:       "The Overall Corpus",
			Description: "Articles gathered for every keyword across the three outlets, and the key actors identified in the whole corpus by named entity recognition.",
			Panels: []PanelConfig{
				{
					ID:        "keywords",
					Kind:      KindKeywordSummary,
					Title:     "Keyword Across Media",
					Dataset:   "Media_PLTSB - Sheet1.csv",
					KeyColumn: "Keyword",
					Series:    outletSeries,
					XLabel:    "Keyword",
					YLabel:    "Counts",
					Note:      "Broader keywords generate more articles. The bar view totals the articles produced by each outlet.",
				},
				entityCloud("plts-actors", "PLTS: Key Actors", "", "PLTS", "corpus_cleaned.csv", 2,
					"Similar names are not merged, so small spelling differences appear as distinct entities."),
				entityCloud("pltb-actors", "PLTB: Key Actors", "", "PLTB", "pltb_wordcloud.csv", 2,
					"Similar names are not merged, so small spelling differences appear as distinct entities."),
			},
		},
		{
			ID:          "plts",
			Title:       "PLTS Coverage",
			Description: "How often Detik, CNBC Indonesia and Tribunnews cover solar power, the segments reporting it and the actors they mention.",
			Panels: []PanelConfig{
				articleHistogram("detik-plts-articles", "Detik", "PLTS", "detik_plts_cleaned.csv",
					"Coverage was minimal before 2010, rose from 2015 and surged from 2020. 2023 data runs to August."),
				segmentHistogram("detik-plts-segments", "Detik", "PLTS", "detik_plts_cleaned.csv",
					"detikFinance carries most of the PLTS coverage."),
				entityCloud("detik-plts-actors", "Detik PLTS: Key Actors", "Detik", "PLTS", "aggregated_counts.csv", 1, ""),
				articleHistogram("cnbc-plts-articles", "CNBC", "PLTS", "cnbc_plts_merged.csv",
					"CNBC Indonesia launched in 2018 and covered PLTS from the start."),
				segmentHistogram("cnbc-plts-segments", "CNBC", "PLTS", "cnbc_plts_merged.csv",
					"The News segment reports the most, followed by Market."),
				entityCloud("cnbc-plts-actors", "CNBC PLTS: Key Actors", "CNBC", "PLTS", "aggregated_counts_cnbcplts.csv", 1, ""),
				articleHistogram("tribun-plts-articles", "Tribun", "PLTS", "tribun_plts_merged.csv",
					"Tribunnews articles were collected from keyword pages, so the real volume may be larger."),
				entityCloud("tribun-plts-actors", "Tribun PLTS: Key Actors", "Tribun", "PLTS", "aggregated_counts_tribunplts.csv", 1, ""),
			},
		},
		{
			ID:          "pltb",
			Title:       "PLTB Coverage",
			Description: "The same structure for wind power reporting.",
			Panels: []PanelConfig{
				articleHistogram("detik-pltb-articles", "Detik", "PLTB", "detik_pltb_cleaned.csv",
					"2017 and 2018 have the most publications, around the launch of PLTB Sidrap."),
				segmentHistogram("detik-pltb-segments", "Detik", "PLTB", "detik_pltb_cleaned.csv",
					"Most articles come from detikFinance with a small share from detikNews."),
				entityCloud("detik-pltb-actors", "Detik PLTB: Key Actors", "Detik", "PLTB", "aggregated_counts_detikangin.csv", 1, ""),
				articleHistogram("cnbc-pltb-articles", "CNBC", "PLTB", "cnbc_pltb_merged.csv",
					"CNBC produced the most wind articles in 2022."),
				segmentHistogram("cnbc-pltb-segments", "CNBC", "PLTB", "cnbc_pltb_merged.csv",
					"News and Market are the two significant segments."),
				articleHistogram("tribun-pltb-articles", "Tribun", "PLTB", "tribun_pltb_merged.csv",
					"2018 yielded the most articles. Segment data was not available for Tribunnews."),
			},
		},
	}}
	cfg.applyDefaults()
	return cfg
}
