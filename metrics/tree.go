// Package metrics organizes run results in a tree keyed by path, typically
// dataset / seed / split / prompt, with scores at the leaves.
//
// Checkpoints persist these trees between runs, and the demo UI renders
// them.
package metrics

import (
	"fmt"
	"iter"
	"strings"

	"github.com/gomlx/gomlx/types/xslices"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Node is either a Value or a Map of its children -- but not both.
type Node[T any] struct {
	// Value is set for leaf nodes only.
	Value T

	// Map is set for non-leaf nodes (and nil in leaf nodes).
	Map map[string]*Node[T]
}

func (n *Node[T]) IsLeaf() bool { return n.Map == nil }

// Tree holds the root node of a metrics tree.
//
// T is the type of the leaf values, usually float64 scores.
type Tree[T any] struct {
	Root *Node[T] // The root node is always a map.
}

// Path from the root node to a leaf.
type Path []string

// New creates a new empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{
		Root: newMapNode[T](),
	}
}

func newMapNode[T any]() *Node[T] {
	return &Node[T]{Map: make(map[string]*Node[T])}
}

// Set the value at path, populating intermediary nodes where needed.
// Empty components in path are skipped.
//
// It returns an error when the path crosses an existing leaf or ends on an
// existing non-leaf: nodes are either a leaf or a map, never both.
func (tree *Tree[T]) Set(path Path, value T) error {
	path = slices.DeleteFunc(slices.Clone(path), func(s string) bool { return s == "" })
	if len(path) == 0 {
		return errors.New("metrics.Tree.Set() needs a non-empty path")
	}
	node := tree.Root
	for depth, component := range path {
		if node.IsLeaf() {
			return errors.Errorf("metrics.Tree.Set(%q) crosses the existing leaf at %q", path, path[:depth])
		}
		next := node.Map[component]
		if next == nil {
			if depth == len(path)-1 {
				next = &Node[T]{Value: value}
			} else {
				next = newMapNode[T]()
			}
			node.Map[component] = next
		}
		node = next
	}
	if !node.IsLeaf() {
		return errors.Errorf("metrics.Tree.Set(%q) would overwrite a non-leaf node", path)
	}
	node.Value = value
	return nil
}

// Get returns the leaf value at path, if there is one.
func (tree *Tree[T]) Get(path Path) (value T, found bool) {
	node := tree.Root
	for _, component := range path {
		if node.IsLeaf() {
			return value, false
		}
		node = node.Map[component]
		if node == nil {
			return value, false
		}
	}
	if !node.IsLeaf() {
		return value, false
	}
	return node.Value, true
}

// Leaves iterates over all (Path, value) leaf pairs, in map order.
func (tree *Tree[T]) Leaves() iter.Seq2[Path, T] {
	return func(yield func(Path, T) bool) {
		recursiveLeaves(nil, tree.Root, false, yield)
	}
}

// OrderedLeaves is like Leaves but in alphabetical, depth-first order.
func (tree *Tree[T]) OrderedLeaves() iter.Seq2[Path, T] {
	return func(yield func(Path, T) bool) {
		recursiveLeaves(nil, tree.Root, true, yield)
	}
}

func recursiveLeaves[T any](path Path, node *Node[T], ordered bool, yield func(Path, T) bool) bool {
	if node.IsLeaf() {
		return yield(slices.Clone(path), node.Value)
	}
	if ordered {
		for _, key := range xslices.SortedKeys(node.Map) {
			if !recursiveLeaves(append(path, key), node.Map[key], ordered, yield) {
				return false
			}
		}
	} else {
		for key, subNode := range node.Map {
			if !recursiveLeaves(append(path, key), subNode, ordered, yield) {
				return false
			}
		}
	}
	return true
}

// NumLeaves traverses the tree and returns the number of leaf nodes.
func (tree *Tree[T]) NumLeaves() int {
	var count int
	for range tree.Leaves() {
		count++
	}
	return count
}

// Map converts a Tree[T1] to a Tree[T2] by calling mapFn at every leaf.
func Map[T1, T2 any](tree1 *Tree[T1], mapFn func(Path, T1) T2) *Tree[T2] {
	tree2 := New[T2]()
	for p, v1 := range tree1.Leaves() {
		err := tree2.Set(p, mapFn(p, v1))
		if err != nil {
			// Can't happen: the structure being duplicated is already valid.
			panic(err)
		}
	}
	return tree2
}

// ValuesAsList extracts the leaf values into a list, in OrderedLeaves order.
func ValuesAsList[T any](tree *Tree[T]) []T {
	results := make([]T, 0, tree.NumLeaves())
	for _, value := range tree.OrderedLeaves() {
		results = append(results, value)
	}
	return results
}

// String implements fmt.Stringer.
func (tree *Tree[T]) String() string {
	var parts []string
	parts = nodeToString(parts, "/", tree.Root, 0)
	return strings.Join(parts, "\n") + "\n"
}

func nodeToString[T any](parts []string, name string, subTree *Node[T], indent int) []string {
	indentSpaces := strings.Repeat("  ", indent)
	indent++
	if len(subTree.Map) == 0 {
		// Leaf node.
		var valueAny any
		valueAny = subTree.Value
		if valueStr, ok := valueAny.(fmt.Stringer); ok {
			return append(parts, fmt.Sprintf("%s%q: %s", indentSpaces, name, valueStr))
		}
		return append(parts, fmt.Sprintf("%s%q: %v", indentSpaces, name, subTree.Value))
	}
	parts = append(parts, fmt.Sprintf("%s%q: {", indentSpaces, name))
	for _, key := range xslices.SortedKeys(subTree.Map) {
		parts = nodeToString(parts, key, subTree.Map[key], indent)
	}
	parts = append(parts, fmt.Sprintf("%s}", indentSpaces))
	return parts
}
