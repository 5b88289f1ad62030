package scorers

import (
	"context"
	"slices"

	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gomlx/types/xslices"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Vocabulary tokenizes texts and resolves verbalizer pieces to token ids.
// *tokenizers.Processor implements it.
type Vocabulary interface {
	EncodeAsIds(text string) []int
	IDForPiece(piece string) (int, error)

	BeginningOfSentenceId() int
	PadId() int
}

// MaskedLM runs the forward pass of a local mask LM. Given an int32 input
// shaped [batchSize, seqLen], it returns float32 logits shaped
// [batchSize, vocabSize] taken at the masked position of each sequence.
type MaskedLM interface {
	MaskedLogits(input *tensors.Tensor) (*tensors.Tensor, error)
}

// TensorScorer scores texts with a locally hosted mask LM, gathering the
// logits of the verbalizer token ids from the model's output distribution.
type TensorScorer struct {
	vocab         Vocabulary
	model         MaskedLM
	verbalizerIDs []int
}

// NewTensor creates a scorer for the given vocabulary, model and verbalizer
// tokens. Each verbalizer must map to a single token of the vocabulary.
func NewTensor(vocab Vocabulary, model MaskedLM, verbalizerTokens []string) (*TensorScorer, error) {
	ids := make([]int, len(verbalizerTokens))
	for label, tok := range verbalizerTokens {
		id, err := vocab.IDForPiece(tok)
		if err != nil {
			return nil, errors.WithMessagef(err, "resolving verbalizer for class %d", label)
		}
		ids[label] = id
	}
	return &TensorScorer{vocab: vocab, model: model, verbalizerIDs: ids}, nil
}

// NumClasses implements Scorer.
func (s *TensorScorer) NumClasses() int { return len(s.verbalizerIDs) }

// ClassLogits implements Scorer.
func (s *TensorScorer) ClassLogits(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := xslices.Map(texts, s.vocab.EncodeAsIds)
	lengths := xslices.Map(ids, func(seq []int) int { return len(seq) })
	input := s.createInputTensor(ids, slices.Max(lengths))
	logits, err := s.model.MaskedLogits(input)
	if err != nil {
		return nil, errors.WithMessage(err, "mask LM forward pass failed")
	}
	return s.gather(logits, len(texts))
}

// createInputTensor creates a tensor shaped int32[batchSize, maxLength+1]
// padded with the Vocab.PadId, filled (left to right) with the given token
// ids, each sequence prefixed with a "bos" token.
func (s *TensorScorer) createInputTensor(tokenIds [][]int, maxLength int) *tensors.Tensor {
	batchSize := len(tokenIds)
	totalLength := maxLength + 1 // To accommodate for "bos".
	input := tensors.FromScalarAndDimensions(int32(s.vocab.PadId()), batchSize, totalLength)
	bos := int32(s.vocab.BeginningOfSentenceId())
	tensors.MutableFlatData(input, func(flat []int32) {
		for exampleIdx := range batchSize {
			exampleIds := flat[exampleIdx*totalLength : (exampleIdx+1)*totalLength]
			exampleIds[0] = bos
			for ii, value := range tokenIds[exampleIdx] {
				exampleIds[1+ii] = int32(value)
			}
		}
	})
	return input
}

// gather extracts the verbalizer-id logits from the model output.
func (s *TensorScorer) gather(logits *tensors.Tensor, batchSize int) ([][]float64, error) {
	if logits.DType() != dtypes.Float32 {
		return nil, errors.Errorf("expected float32 logits, got %s", logits.DType())
	}
	dims := logits.Shape().Dimensions
	if len(dims) != 2 || dims[0] != batchSize {
		return nil, errors.Errorf("expected logits shaped [%d, vocabSize], got %v", batchSize, dims)
	}
	vocabSize := dims[1]
	for _, id := range s.verbalizerIDs {
		if id < 0 || id >= vocabSize {
			return nil, errors.Errorf("verbalizer token id %d outside the model's vocabulary (size %d)", id, vocabSize)
		}
	}

	rows := make([][]float64, batchSize)
	tensors.ConstFlatData(logits, func(flat []float32) {
		for exampleIdx := range batchSize {
			exampleLogits := flat[exampleIdx*vocabSize : (exampleIdx+1)*vocabSize]
			row := make([]float64, len(s.verbalizerIDs))
			for label, id := range s.verbalizerIDs {
				row[label] = float64(exampleLogits[id])
			}
			rows[exampleIdx] = row
		}
	})
	return rows, nil
}
