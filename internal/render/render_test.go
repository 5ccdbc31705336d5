package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	"mediadash/internal/dataset"
	"mediadash/internal/frequency"
)

var testSize = Size{Width: 640, Height: 360}

func decodePNG(t *testing.T, a *Artifact) {
	t.Helper()
	require.NotNil(t, a)
	assert.Equal(t, KindImage, a.Kind)
	img, err := png.Decode(bytes.NewReader(a.PNG))
	require.NoError(t, err)
	assert.Equal(t, a.Width, img.Bounds().Dx())
	assert.Equal(t, a.Height, img.Bounds().Dy())
}

func TestBinYears(t *testing.T) {
	years := []int64{2016, 2018, 2020, 2018}
	groups := []string{"Finance", "News", "Market", "Finance"}

	h, err := BinYears(years, groups, 2017, 2019)
	require.NoError(t, err)

	assert.Equal(t, []int{2017, 2018, 2019}, h.Years)
	assert.Equal(t, []int64{0, 2, 0}, h.Totals)
	assert.Equal(t, []string{"News", "Finance"}, h.Groups)
	assert.Equal(t, [][]int64{{0, 0}, {1, 1}, {0, 0}}, h.Counts)
	assert.True(t, h.Grouped())
	assert.EqualValues(t, 2, h.Total())
}

func TestBinYears_Edges(t *testing.T) {
	t.Run("bin count follows range", func(t *testing.T) {
		h, err := BinYears(nil, nil, 2000, 2023)
		require.NoError(t, err)
		assert.Len(t, h.Years, 24)
		assert.False(t, h.Grouped())
	})

	t.Run("inverted range has no bins", func(t *testing.T) {
		h, err := BinYears([]int64{2018}, nil, 2019, 2017)
		require.NoError(t, err)
		assert.Empty(t, h.Years)
	})

	t.Run("missing group gets a label", func(t *testing.T) {
		h, err := BinYears([]int64{2018}, []string{""}, 2018, 2018)
		require.NoError(t, err)
		assert.Equal(t, []string{MissingGroup}, h.Groups)
	})

	t.Run("groups must be parallel", func(t *testing.T) {
		_, err := BinYears([]int64{2018, 2019}, []string{"a"}, 2018, 2019)
		assert.Error(t, err)
	})
}

func TestHistogram_EmptyRangeRendersLabeledPlaceholder(t *testing.T) {
	h, err := BinYears(nil, nil, 2020, 2022)
	require.NoError(t, err)
	require.Len(t, h.Years, 3)

	a, err := Histogram(h, Labels{Title: "Articles per Year", XLabel: "Year", YLabel: "Articles"}, testSize)
	require.NoError(t, err)
	assert.True(t, a.Empty)
	assert.Equal(t, "Articles per Year", a.Title)
	decodePNG(t, a)
}

func TestHistogram_Plain(t *testing.T) {
	h, err := BinYears([]int64{2018, 2018, 2019, 2021}, nil, 2018, 2021)
	require.NoError(t, err)

	a, err := Histogram(h, Labels{Title: "Detik PLTS", XLabel: "Year", YLabel: "Articles"}, testSize)
	require.NoError(t, err)
	assert.False(t, a.Empty)
	decodePNG(t, a)
}

func TestHistogram_Stacked(t *testing.T) {
	h, err := BinYears(
		[]int64{2018, 2018, 2019, 2021, 2021},
		[]string{"News", "Finance", "News", "Market", "News"},
		2018, 2021,
	)
	require.NoError(t, err)

	a, err := Histogram(h, Labels{Title: "Segments", XLabel: "Year", YLabel: "Number of Articles"}, testSize)
	require.NoError(t, err)
	assert.False(t, a.Empty)
	decodePNG(t, a)
}

// colorPixels counts pixels of c in the left and right halves of the image.
func colorPixels(t *testing.T, a *Artifact, c color.Color) (left, right int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(a.PNG))
	require.NoError(t, err)
	wr, wg, wb, _ := c.RGBA()
	b := img.Bounds()
	mid := b.Min.X + b.Dx()/2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != wr || g != wg || bl != wb {
				continue
			}
			if x < mid {
				left++
			} else {
				right++
			}
		}
	}
	return left, right
}

func TestHistogram_StackedHeightsFollowCounts(t *testing.T) {
	years := []int64{2018}
	groups := []string{"News"}
	for i := 0; i < 10; i++ {
		years = append(years, 2019)
		groups = append(groups, "News")
	}
	h, err := BinYears(years, groups, 2018, 2019)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 10}, h.Totals)

	a, err := Histogram(h, Labels{Title: "Segments"}, testSize)
	require.NoError(t, err)

	left, right := colorPixels(t, a, chart.GetDefaultColor(0))
	require.Positive(t, left, "2018 bar not drawn")
	assert.Greater(t, right, 5*left, "2019 holds ten times the articles of 2018")
}

func TestHistogram_StackedSegmentsAddUp(t *testing.T) {
	// 2018 is one News article; 2019 is one News and nine Finance.
	years := []int64{2018, 2019}
	groups := []string{"News", "News"}
	for i := 0; i < 9; i++ {
		years = append(years, 2019)
		groups = append(groups, "Finance")
	}
	h, err := BinYears(years, groups, 2018, 2019)
	require.NoError(t, err)

	a, err := Histogram(h, Labels{Title: "Segments"}, testSize)
	require.NoError(t, err)

	newsLeft, newsRight := colorPixels(t, a, chart.GetDefaultColor(0))
	_, financeRight := colorPixels(t, a, chart.GetDefaultColor(1))
	require.Positive(t, newsLeft)
	// one News article is the same height in both years
	assert.InDelta(t, newsLeft, newsRight, float64(newsLeft)*0.5)
	assert.Greater(t, financeRight, 5*newsLeft)
}

func TestBar(t *testing.T) {
	a, err := Bar([]string{"Detik", "CNBC", "Tribun"}, []float64{13, 10, 3}, Labels{Title: "Total Articles", XLabel: "Media"}, testSize)
	require.NoError(t, err)
	decodePNG(t, a)

	t.Run("single bar", func(t *testing.T) {
		a, err := Bar([]string{"Detik"}, []float64{4}, Labels{}, testSize)
		require.NoError(t, err)
		decodePNG(t, a)
	})

	t.Run("all zero still draws the categories", func(t *testing.T) {
		a, err := Bar([]string{"Detik", "CNBC"}, []float64{0, 0}, Labels{Title: "zero"}, testSize)
		require.NoError(t, err)
		assert.False(t, a.Empty)
		decodePNG(t, a)
	})

	t.Run("no categories is a placeholder", func(t *testing.T) {
		a, err := Bar(nil, nil, Labels{Title: "none"}, testSize)
		require.NoError(t, err)
		assert.True(t, a.Empty)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Bar([]string{"a"}, []float64{1, 2}, Labels{}, testSize)
		assert.Error(t, err)
	})
}

func TestLine(t *testing.T) {
	a, err := Line(
		[]string{"PLTS", "PLTB", "EBT"},
		[]Series{{Name: "Detik", Values: []float64{10, 3, 5}}, {Name: "CNBC", Values: []float64{4, 6, 0}}},
		Labels{Title: "Articles per Keyword", XLabel: "Keyword", YLabel: "Articles"},
		testSize,
	)
	require.NoError(t, err)
	assert.False(t, a.Empty)
	decodePNG(t, a)

	t.Run("single point", func(t *testing.T) {
		a, err := Line([]string{"PLTS"}, []Series{{Name: "Detik", Values: []float64{0}}}, Labels{}, testSize)
		require.NoError(t, err)
		decodePNG(t, a)
	})

	t.Run("no labels is a placeholder", func(t *testing.T) {
		a, err := Line(nil, []Series{{Name: "Detik"}}, Labels{}, testSize)
		require.NoError(t, err)
		assert.True(t, a.Empty)
	})
}

func TestWordCloud(t *testing.T) {
	a, err := WordCloud([]frequency.Entry{{Key: "Jokowi", Count: 8}, {Key: "PLN", Count: 3}}, "Individuals", testSize)
	require.NoError(t, err)
	decodePNG(t, a)

	t.Run("empty is a placeholder", func(t *testing.T) {
		a, err := WordCloud(nil, "Individuals", testSize)
		require.NoError(t, err)
		assert.True(t, a.Empty)
	})

	t.Run("non-positive count", func(t *testing.T) {
		_, err := WordCloud([]frequency.Entry{{Key: "PLN", Count: 0}}, "", testSize)
		assert.ErrorIs(t, err, ErrInvalidFrequencies)
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := WordCloud([]frequency.Entry{{Key: "PLN", Count: 2}, {Key: "PLN", Count: 1}}, "", testSize)
		assert.ErrorIs(t, err, ErrInvalidFrequencies)
	})
}

func TestBlank(t *testing.T) {
	a, err := Blank("Title", "nothing here", Size{Width: 200, Height: 100})
	require.NoError(t, err)
	assert.True(t, a.Empty)
	assert.Equal(t, "nothing here", a.Note)
	decodePNG(t, a)
	assert.True(t, strings.HasPrefix(string(a.DataURI()), "data:image/png;base64,"))

	_, err = Blank("x", "y", Size{})
	assert.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	tbl, err := dataset.Parse("keywords", strings.NewReader("Keyword,Detik,CNBC\nPLTS,10,4\nPLTB,,6\n"))
	require.NoError(t, err)

	data, err := ExportXLSX(tbl, "Keyword Summary: all/outlets")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.NotContains(t, sheets[0], ":")
	assert.NotContains(t, sheets[0], "/")

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Keyword", "Detik", "CNBC"}, rows[0])
	assert.Equal(t, []string{"PLTS", "10", "4"}, rows[1])
	assert.Equal(t, "PLTB", rows[2][0])
	assert.Equal(t, "6", rows[2][2])
}

func TestTableArtifact(t *testing.T) {
	tbl, err := dataset.Parse("t", strings.NewReader("Year\n"))
	require.NoError(t, err)
	a := TableArtifact("raw", tbl)
	assert.Equal(t, KindTable, a.Kind)
	assert.True(t, a.Empty)
	assert.Same(t, tbl, a.Table)
}
