package frequency

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediadash/internal/dataset"
)

func parse(t *testing.T, content string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Parse("inline", strings.NewReader(content))
	require.NoError(t, err)
	return tbl
}

func TestAggregate_IndividualsScenario(t *testing.T) {
	tbl := parse(t, "Entity,NER_Label,Counts\nJokowi,B-PER,5\nJokowi,B-PER,3\nPLN,B-ORG,1\n")

	people, err := dataset.Filter(tbl, dataset.Eq("NER_Label", "B-PER"))
	require.NoError(t, err)

	ft, err := Aggregate(people, "Entity", "Counts", 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"Jokowi": 8}, ft.Map())
	_, ok := ft.Get("PLN")
	assert.False(t, ok)
}

func TestAggregate_ThresholdDropsNoise(t *testing.T) {
	tbl := parse(t, "Entity,Counts\nA,1\nB,1\nB,1\nC,7\nA,0\n")

	ft, err := Aggregate(tbl, "Entity", "Counts", 2)
	require.NoError(t, err)

	want := []Entry{{Key: "B", Count: 2}, {Key: "C", Count: 7}}
	if diff := cmp.Diff(want, ft.Entries()); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_Conservation(t *testing.T) {
	tbl := parse(t, "Entity,Counts\nA,3\nB,1\nA,4\nC,2\nD,1\nC,0\nE,10\n")

	for _, minCount := range []int64{0, 1, 2, 5, 11} {
		ft, err := Aggregate(tbl, "Entity", "Counts", minCount)
		require.NoError(t, err)

		all, err := Aggregate(tbl, "Entity", "Counts", 0)
		require.NoError(t, err)

		var want int64
		for _, e := range all.Entries() {
			if e.Count >= minCount {
				want += e.Count
			}
		}
		assert.Equal(t, want, ft.Total(), "minCount=%d", minCount)
		for _, e := range ft.Entries() {
			assert.GreaterOrEqual(t, e.Count, minCount)
		}
	}
}

func TestAggregate_FloatIntegralCountsAccepted(t *testing.T) {
	tbl := parse(t, "Entity,Counts\nA,5.0\nA,3\n")

	ft, err := Aggregate(tbl, "Entity", "Counts", 2)
	require.NoError(t, err)
	got, _ := ft.Get("A")
	assert.EqualValues(t, 8, got)
}

func TestAggregate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantRow int
	}{
		{name: "non numeric", content: "Entity,Counts\nA,3\nB,many\n", wantRow: 2},
		{name: "missing value", content: "Entity,Counts\nA,\nB,1\n", wantRow: 1},
		{name: "fractional", content: "Entity,Counts\nA,1.5\n", wantRow: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(parse(t, tt.content), "Entity", "Counts", 2)
			require.ErrorIs(t, err, ErrAggregation)

			var aggErr *AggregationError
			require.True(t, errors.As(err, &aggErr))
			assert.Equal(t, "Counts", aggErr.Column)
			assert.Equal(t, tt.wantRow, aggErr.Row)
		})
	}

	t.Run("unknown column", func(t *testing.T) {
		_, err := Aggregate(parse(t, "Entity,Counts\nA,1\n"), "Entity", "Mentions", 2)
		assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
	})
}

func TestAggregate_EmptyInput(t *testing.T) {
	ft, err := Aggregate(parse(t, "Entity,Counts\n"), "Entity", "Counts", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, ft.Len())
	assert.Empty(t, Rank(ft, 50))
}

func TestCounts(t *testing.T) {
	tbl := parse(t, "Keyword,Detik,Tribun\nPLTS,10,5.0\nPLTB,3,\n")

	got, err := Counts(tbl, "Detik")
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 3}, got)

	_, err = Counts(tbl, "Tribun")
	var aggErr *AggregationError
	require.True(t, errors.As(err, &aggErr), "got %v", err)
	assert.Equal(t, 2, aggErr.Row)
	assert.ErrorIs(t, err, ErrAggregation)

	_, err = Counts(tbl, "CNBC")
	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
}

func TestRank_TieKeepsEncounterOrder(t *testing.T) {
	ft := New(Entry{"A", 10}, Entry{"B", 10}, Entry{"C", 5})

	got := Rank(ft, 2)

	want := []Entry{{Key: "A", Count: 10}, {Key: "B", Count: 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rank() mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_LengthAndOrder(t *testing.T) {
	ft := New(Entry{"a", 3}, Entry{"b", 9}, Entry{"c", 1}, Entry{"d", 9}, Entry{"e", 4})

	for _, n := range []int{0, 1, 3, 5, 10} {
		got := Rank(ft, n)

		want := n
		if n <= 0 || n > ft.Len() {
			want = ft.Len()
		}
		assert.Len(t, got, want, "n=%d", n)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
		}
	}

	assert.Equal(t, []Entry{{"b", 9}, {"d", 9}, {"e", 4}}, Rank(ft, 3))
}

func TestRank_DoesNotMutateTable(t *testing.T) {
	ft := New(Entry{"x", 1}, Entry{"y", 2})
	_ = Rank(ft, 1)
	assert.Equal(t, []Entry{{"x", 1}, {"y", 2}}, ft.Entries())
}

func TestPipelineIsIdempotent(t *testing.T) {
	tbl := parse(t, "Entity,NER_Label,Counts\nA,B-ORG,4\nB,B-ORG,4\nC,B-PER,9\nA,B-ORG,1\nD,B-ORG,2\n")

	run := func() []Entry {
		orgs, err := dataset.Filter(tbl, dataset.Eq("NER_Label", "B-ORG"))
		require.NoError(t, err)
		ft, err := Aggregate(orgs, "Entity", "Counts", 2)
		require.NoError(t, err)
		return Rank(ft, 10)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Equal(t, []Entry{{"A", 5}, {"B", 4}, {"D", 2}}, first)
}

func TestSumColumns(t *testing.T) {
	tbl := parse(t, "Keyword,Detik,CNBC,Tribun\nPLTS,10,4,2\nPLTB,3,6,1\n")

	ft, err := SumColumns(tbl, "Detik", "CNBC", "Tribun")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"Detik", 13}, {"CNBC", 10}, {"Tribun", 3}}, ft.Entries())

	_, err = SumColumns(tbl, "Keyword")
	assert.ErrorIs(t, err, ErrAggregation)
}

func TestNew_MergesDuplicateKeys(t *testing.T) {
	ft := New(Entry{"PLN", 2}, Entry{"PLN", 3})
	assert.Equal(t, 1, ft.Len())
	got, _ := ft.Get("PLN")
	assert.EqualValues(t, 5, got)
}
