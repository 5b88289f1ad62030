// Package verbalizers maps a dataset and task-LM choice to the output-label
// tokens the reward reads the model's distribution at, plus an optional
// prompt template.
//
// The label words are fixed per dataset; what varies with the task LM is the
// token surface: byte-level BPE vocabularies (RoBERTa, DeBERTa, GPT) mark a
// word-initial token with "Ġ", sentencepiece vocabularies (LLaMA) with "▁",
// and wordpiece vocabularies (BERT) not at all.
package verbalizers

import (
	"github.com/gomlx/gomlx/types/xslices"
	"github.com/haderus/ReLAttack/datasets"
	"github.com/pkg/errors"
)

// Set holds the verbalizer tokens of one dataset/task-LM pair, one token per
// class, indexed by class label.
type Set struct {
	Tokens []string
}

// NumClasses of the classification task.
func (s Set) NumClasses() int { return len(s.Tokens) }

// labelWords are the per-dataset label words, before tokenizer-specific
// prefixing. The binary datasets all share the sentiment-style pair the
// prompt search targets.
var labelWords = map[datasets.Name][]string{
	datasets.CoLA:   {"terrible", "great"},
	datasets.Yelp:   {"terrible", "great"},
	datasets.ReCoRD: {"terrible", "great"},
	datasets.QuAC:   {"terrible", "great"},
	datasets.AGNews: {"World", "Sports", "Business", "Tech"},
}

// ForDataset returns the verbalizer set for the dataset, in the token
// surface of the task LM's vocabulary.
func ForDataset(name datasets.Name, lm TaskLM) (Set, error) {
	words, found := labelWords[name]
	if !found {
		return Set{}, errors.Errorf("no verbalizers defined for dataset %q", name)
	}
	prefix := lm.piecePrefix()
	return Set{
		Tokens: xslices.Map(words, func(w string) string { return prefix + w }),
	}, nil
}
