package datasets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	for _, s := range []string{"CoLA", "yelp", "agnews", "ReCoRD", "QuAC"} {
		name, err := ParseName(s)
		require.NoError(t, err)
		require.Equal(t, s, name.String())
	}
	_, err := ParseName("sst2")
	fmt.Printf("\texpected error for unknown dataset: %v\n", err)
	require.ErrorContains(t, err, "unknown dataset")
}

func TestParseSplit(t *testing.T) {
	for _, s := range []string{"train", "dev", "test"} {
		split, err := ParseSplit(s)
		require.NoError(t, err)
		require.Equal(t, s, split.String())
	}
	_, err := ParseSplit("validation")
	require.ErrorContains(t, err, "unknown split")
}

func TestSplitPath(t *testing.T) {
	cfg := Config{Dataset: Yelp, DatasetSeed: 1, BasePath: "testdata"}
	p, err := SplitPath(cfg, Dev)
	require.NoError(t, err)
	require.Equal(t, "testdata/16-shot/yelp/16-13/dev.tsv", p)

	_, err = SplitPath(Config{Dataset: Yelp, DatasetSeed: 7, BasePath: "testdata"}, Dev)
	require.ErrorContains(t, err, "dataset seed must be in")

	_, err = SplitPath(Config{Dataset: Yelp, BasePath: "testdata", NumShots: 32}, Dev)
	require.ErrorContains(t, err, "only the 16-shot splits are published")

	_, err = SplitPath(Config{BasePath: "testdata"}, Dev)
	require.ErrorContains(t, err, "no dataset configured")
}

func TestLoad(t *testing.T) {
	cfg := Config{Dataset: Yelp, DatasetSeed: 0, BasePath: "testdata"}
	ds, err := Load(cfg, Train)
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())
	require.Equal(t, Example{Text: "the food was cold and the service slow .", Label: 0}, ds.At(0))
	require.Equal(t, Example{Text: "absolutely loved the patio and the staff .", Label: 1}, ds.At(3))
}

func TestLoadSentenceColumn(t *testing.T) {
	// CoLA splits name their text column "sentence" instead of "text".
	cfg := Config{Dataset: CoLA, DatasetSeed: 1, BasePath: "testdata"}
	ds, err := Load(cfg, Train)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	require.Equal(t, "they drank the pub dry .", ds.SourceTexts[1])
	require.Equal(t, []int{0, 1}, ds.ClassLabels)
}

func TestLoadSplits(t *testing.T) {
	cfg := Config{Dataset: Yelp, DatasetSeed: 0, BasePath: "testdata"}
	train, dev, test, err := LoadSplits(cfg)
	require.NoError(t, err)
	require.Equal(t, 4, train.Len())
	require.Equal(t, 2, dev.Len())
	require.Equal(t, 2, test.Len())
}

func TestLoadErrors(t *testing.T) {
	// Missing file:
	cfg := Config{Dataset: AGNews, DatasetSeed: 0, BasePath: "testdata"}
	_, err := Load(cfg, Train)
	fmt.Printf("\texpected error for missing split file: %v\n", err)
	require.ErrorContains(t, err, "failed to open")

	// Non-integer label:
	cfg = Config{Dataset: Yelp, DatasetSeed: 0, BasePath: "testdata/broken"}
	_, err = Load(cfg, Train)
	fmt.Printf("\texpected error for bad label: %v\n", err)
	require.ErrorContains(t, err, "non-integer label")

	// A row wider than the header:
	_, err = Load(cfg, Dev)
	fmt.Printf("\texpected error for ragged row: %v\n", err)
	require.ErrorContains(t, err, "wrong number of fields")
	require.ErrorContains(t, err, "tab-separated")
}

func TestLoadHeaderOnly(t *testing.T) {
	// A split file with a header and no rows is a valid empty dataset.
	cfg := Config{Dataset: AGNews, DatasetSeed: 2, BasePath: "testdata/headeronly"}
	ds, err := Load(cfg, Dev)
	require.NoError(t, err)
	require.Equal(t, 0, ds.Len())
}

func TestNewLengthMismatch(t *testing.T) {
	_, err := New([]string{"a", "b"}, []int{0})
	require.ErrorContains(t, err, "2 source texts but 1 class labels")
}
