package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestTree(t *testing.T) *Tree[float64] {
	tree := New[float64]()
	require.NoError(t, tree.Set(Path{"yelp", "16-100", "dev", "prompt a"}, 0.5))
	require.NoError(t, tree.Set(Path{"yelp", "16-100", "dev", "prompt b"}, 1.5))
	require.NoError(t, tree.Set(Path{"agnews", "16-13", "test", "prompt a"}, -2.0))
	return tree
}

func TestSetAndGet(t *testing.T) {
	tree := createTestTree(t)
	fmt.Printf("Tree:\n%v\n", tree)

	v, found := tree.Get(Path{"yelp", "16-100", "dev", "prompt b"})
	require.True(t, found)
	require.Equal(t, 1.5, v)

	_, found = tree.Get(Path{"yelp", "16-100", "train", "prompt b"})
	require.False(t, found)

	// An inner node is not a leaf value.
	_, found = tree.Get(Path{"yelp", "16-100"})
	require.False(t, found)

	err := tree.Set(Path{"yelp", "16-100"}, 9)
	fmt.Printf("\texpected error setting a non-leaf: %v\n", err)
	require.ErrorContains(t, err, "would overwrite a non-leaf node")

	err = tree.Set(Path{"agnews", "16-13", "test", "prompt a", "extra"}, 9)
	require.ErrorContains(t, err, "crosses the existing leaf")

	err = tree.Set(nil, 9)
	require.ErrorContains(t, err, "non-empty path")
}

func TestSetSkipsEmptyComponents(t *testing.T) {
	tree := New[int]()
	require.NoError(t, tree.Set(Path{"", "a", "", "b"}, 7))
	v, found := tree.Get(Path{"a", "b"})
	require.True(t, found)
	require.Equal(t, 7, v)
}

func TestOrderedLeaves(t *testing.T) {
	tree := createTestTree(t)
	var paths []string
	var values []float64
	for p, v := range tree.OrderedLeaves() {
		paths = append(paths, fmt.Sprintf("%v", []string(p)))
		values = append(values, v)
	}
	require.Equal(t, []string{
		"[agnews 16-13 test prompt a]",
		"[yelp 16-100 dev prompt a]",
		"[yelp 16-100 dev prompt b]",
	}, paths)
	require.Equal(t, []float64{-2.0, 0.5, 1.5}, values)
	require.Equal(t, 3, tree.NumLeaves())
}

func TestMapAndValuesAsList(t *testing.T) {
	tree := createTestTree(t)
	doubled := Map(tree, func(_ Path, v float64) float64 { return 2 * v })
	require.Equal(t, []float64{-4.0, 1.0, 3.0}, ValuesAsList(doubled))
}
