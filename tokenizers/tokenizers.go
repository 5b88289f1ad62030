// Package tokenizers wraps github.com/eliben/go-sentencepiece with the
// lookups the scorers need: encoding texts to ids and resolving verbalizer
// pieces to single token ids.
package tokenizers

import (
	"strings"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/gomlx/gomlx/types/xslices"
	"github.com/pkg/errors"
)

type Processor struct {
	*esentencepiece.Processor
}

func NewFromPath(vocabPath string) (*Processor, error) {
	proc, err := esentencepiece.NewProcessorFromPath(vocabPath)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece from %q", vocabPath)
	}
	return &Processor{
		Processor: proc,
	}, nil
}

type Token = esentencepiece.Token

// EncodeAsIds returns the text encoded into a sequence of ids.
// It implements scorers.Vocabulary.
func (p *Processor) EncodeAsIds(text string) []int {
	tokens := p.Processor.Encode(text)
	return xslices.Map(tokens, func(t Token) int { return t.ID })
}

// DecodeIds returns the text from a sequence of ids.
func (p *Processor) DecodeIds(ids []int) string {
	return p.Processor.Decode(ids)
}

// IDForPiece resolves a verbalizer piece like "▁great" to its token id.
// It implements scorers.Vocabulary.
//
// The piece's "▁" word-initial marker is turned back into a space and the
// result must encode to exactly one token, otherwise the piece can't serve
// as a verbalizer for this vocabulary.
func (p *Processor) IDForPiece(piece string) (int, error) {
	text := strings.ReplaceAll(piece, "▁", " ")
	tokens := p.Processor.Encode(text)
	if len(tokens) != 1 {
		return 0, errors.Errorf("verbalizer piece %q doesn't map to a single token (got %d tokens)", piece, len(tokens))
	}
	return tokens[0].ID, nil
}

// BeginningOfSentenceId returns the corresponding token, aka "bos".
//
// TODO: read from tokenizer model instead.
func (p *Processor) BeginningOfSentenceId() int {
	return 2
}

// EndOfSentenceId returns the corresponding token, aka "eos".
//
// TODO: read from tokenizer model instead.
func (p *Processor) EndOfSentenceId() int {
	return 1
}

// UnknownId returns the corresponding token, aka "unk".
//
// TODO: read from tokenizer model instead.
func (p *Processor) UnknownId() int {
	return 3
}

// PadId returns the corresponding token, aka "pad".
//
// TODO: read from tokenizer model instead.
func (p *Processor) PadId() int {
	return 0
}
