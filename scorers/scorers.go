// Package scorers runs task language models over filled prompt texts and
// extracts one logit per verbalizer token.
//
// The reward only consumes this per-class slice of the model's output
// distribution; everything about how the model is executed stays behind the
// Scorer interface.
package scorers

import "context"

// Scorer produces per-class logits for a batch of filled prompt texts.
//
// The verbalizer set is bound at construction time; ClassLogits returns one
// row per text, each row with one logit per class, indexed by class label.
type Scorer interface {
	ClassLogits(ctx context.Context, texts []string) ([][]float64, error)
	NumClasses() int
}
