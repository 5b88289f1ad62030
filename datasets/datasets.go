// Package datasets loads the 16-shot text-classification splits used to
// score candidate prompts during the prompt search.
//
// The on-disk layout is the published few-shot benchmark convention:
//
//	<base>/16-shot/<dataset>/16-<seed>/<split>.tsv
//
// Each .tsv file has a header row with a "text" (or "sentence") column and a
// "label" column. File contents are trusted beyond that.
package datasets

import (
	"github.com/pkg/errors"
)

// Name identifies one of the supported benchmark datasets.
type Name int

const (
	UnknownName Name = iota
	CoLA
	Yelp
	AGNews
	ReCoRD
	QuAC
)

// String returns the directory name used for the dataset on disk.
func (n Name) String() string {
	switch n {
	case CoLA:
		return "CoLA"
	case Yelp:
		return "yelp"
	case AGNews:
		return "agnews"
	case ReCoRD:
		return "ReCoRD"
	case QuAC:
		return "QuAC"
	}
	return "unknown"
}

// ParseName converts a dataset name (as used on disk and in configs) to a Name.
func ParseName(s string) (Name, error) {
	for _, n := range []Name{CoLA, Yelp, AGNews, ReCoRD, QuAC} {
		if s == n.String() {
			return n, nil
		}
	}
	return UnknownName, errors.Errorf("unknown dataset %q -- supported datasets are CoLA, yelp, agnews, ReCoRD and QuAC", s)
}

// Split identifies one of the three dataset splits.
type Split int

const (
	UnknownSplit Split = iota
	Train
	Dev
	Test
)

// String returns the split's file base name ("train", "dev" or "test").
func (s Split) String() string {
	switch s {
	case Train:
		return "train"
	case Dev:
		return "dev"
	case Test:
		return "test"
	}
	return "unknown"
}

// ParseSplit converts a split name to a Split.
func ParseSplit(s string) (Split, error) {
	for _, split := range []Split{Train, Dev, Test} {
		if s == split.String() {
			return split, nil
		}
	}
	return UnknownSplit, errors.Errorf("unknown split %q -- must be one of train, dev or test", s)
}

// Splits lists the three splits in their canonical order.
var Splits = []Split{Train, Dev, Test}

// Example is one classification example: a source text and its gold class.
type Example struct {
	Text  string
	Label int
}

// Dataset holds the source texts of one split in parallel with their class
// labels.
type Dataset struct {
	SourceTexts []string
	ClassLabels []int
}

// New creates a Dataset from parallel texts and labels.
func New(sourceTexts []string, classLabels []int) (*Dataset, error) {
	if len(sourceTexts) != len(classLabels) {
		return nil, errors.Errorf("got %d source texts but %d class labels", len(sourceTexts), len(classLabels))
	}
	return &Dataset{SourceTexts: sourceTexts, ClassLabels: classLabels}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.SourceTexts) }

// At returns the i-th example.
func (d *Dataset) At(i int) Example {
	return Example{Text: d.SourceTexts[i], Label: d.ClassLabels[i]}
}
