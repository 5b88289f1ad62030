package checkpoints

import (
	"fmt"
	"testing"

	"github.com/haderus/ReLAttack/metrics"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.False(t, Exists(dir))

	scores := metrics.New[float64]()
	require.NoError(t, scores.Set(metrics.Path{"yelp", "16-100", "dev", "absolutely positively"}, 1.25))
	require.NoError(t, scores.Set(metrics.Path{"yelp", "16-100", "dev", "utterly"}, -0.5))
	require.NoError(t, scores.Set(metrics.Path{"agnews", "16-13", "test", "in summary"}, 0.0))

	require.NoError(t, Write(dir, scores))
	require.True(t, Exists(dir))

	got, err := Read(dir)
	require.NoError(t, err)
	require.Equal(t, 3, got.NumLeaves())
	v, found := got.Get(metrics.Path{"yelp", "16-100", "dev", "absolutely positively"})
	require.True(t, found)
	require.Equal(t, 1.25, v)
	require.Equal(t, metrics.ValuesAsList(scores), metrics.ValuesAsList(got))

	// A rewrite replaces the previous file.
	require.NoError(t, scores.Set(metrics.Path{"yelp", "16-100", "dev", "utterly"}, 2.0))
	require.NoError(t, Write(dir, scores))
	got, err = Read(dir)
	require.NoError(t, err)
	v, found = got.Get(metrics.Path{"yelp", "16-100", "dev", "utterly"})
	require.True(t, found)
	require.Equal(t, 2.0, v)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(t.TempDir())
	fmt.Printf("\texpected error for missing checkpoint: %v\n", err)
	require.ErrorContains(t, err, "failed to read scores checkpoint")
}
