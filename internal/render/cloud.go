package render

import (
	"fmt"

	"mediadash/internal/frequency"
	"mediadash/internal/wordcloud"
)

// WordCloud rasterizes ranked entries. Every count must be positive and keys
// must be unique; no entries renders a placeholder.
func WordCloud(entries []frequency.Entry, title string, size Size) (*Artifact, error) {
	if err := validateFrequencies(entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return Blank(title, emptyMessage, size)
	}

	words := make([]wordcloud.Word, len(entries))
	for i, e := range entries {
		words[i] = wordcloud.Word{Text: e.Key, Weight: float64(e.Count)}
	}
	img, err := wordcloud.Render(words, wordcloud.DefaultOptions(size.Width, size.Height))
	if err != nil {
		return nil, fmt.Errorf("render word cloud: %w", err)
	}
	a, err := imageArtifact(title, img)
	if err != nil {
		return nil, fmt.Errorf("encode word cloud: %w", err)
	}
	return a, nil
}

func validateFrequencies(entries []frequency.Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Count <= 0 {
			return fmt.Errorf("%w: %q has count %d", ErrInvalidFrequencies, e.Key, e.Count)
		}
		if _, dup := seen[e.Key]; dup {
			return fmt.Errorf("%w: %q appears more than once", ErrInvalidFrequencies, e.Key)
		}
		seen[e.Key] = struct{}{}
	}
	return nil
}
