package scorers

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// absentLogprob is assigned to a verbalizer that does not show up among the
// returned top log-probabilities.
const absentLogprob = -100.0

// defaultTopLogprobs is the number of top log-probabilities requested per
// completion, the API maximum.
const defaultTopLogprobs = 20

// apiModelNames maps the short task-LM names used in experiment configs to
// the API model identifiers.
var apiModelNames = map[string]string{
	"gpt3.5": "gpt-3.5-turbo",
	"gpt4":   "gpt-4",
}

// OpenAIScorer scores texts with an OpenAI-compatible chat-completions API,
// reading the verbalizer logits from the log-probabilities of the first
// generated token.
type OpenAIScorer struct {
	client      openai.Client
	model       string
	verbalizers []string
	classIndex  map[string]int
}

// NewOpenAI creates a scorer for the given model and verbalizer tokens.
//
// model may be a short task-LM name ("gpt3.5", "gpt4") or a full API model
// id. Credentials come from the usual environment variables unless
// overridden with request options (e.g. option.WithAPIKey,
// option.WithBaseURL for self-hosted OpenAI-compatible servers).
func NewOpenAI(model string, verbalizerTokens []string, opts ...openaiopt.RequestOption) *OpenAIScorer {
	if full, found := apiModelNames[model]; found {
		model = full
	}
	classIndex := make(map[string]int, len(verbalizerTokens))
	for label, tok := range verbalizerTokens {
		classIndex[normalizeToken(tok)] = label
	}
	return &OpenAIScorer{
		client:      openai.NewClient(opts...),
		model:       model,
		verbalizers: verbalizerTokens,
		classIndex:  classIndex,
	}
}

// NumClasses implements Scorer.
func (s *OpenAIScorer) NumClasses() int { return len(s.verbalizers) }

// ClassLogits implements Scorer. One completion request per text, each
// generating a single token with top log-probabilities attached.
func (s *OpenAIScorer) ClassLogits(ctx context.Context, texts []string) ([][]float64, error) {
	logits := make([][]float64, len(texts))
	for i, text := range texts {
		row, err := s.classLogitsOne(ctx, text)
		if err != nil {
			return nil, errors.WithMessagef(err, "scoring text %d of %d with %q", i, len(texts), s.model)
		}
		logits[i] = row
	}
	return logits, nil
}

func (s *OpenAIScorer) classLogitsOne(ctx context.Context, text string) ([]float64, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(text),
		},
		MaxCompletionTokens: openai.Int(1),
		Temperature:         openai.Float(0),
		Logprobs:            openai.Bool(true),
		TopLogprobs:         openai.Int(defaultTopLogprobs),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "chat completion request failed")
	}
	if len(completion.Choices) == 0 || len(completion.Choices[0].Logprobs.Content) == 0 {
		return nil, errors.Errorf("model %q returned no log-probabilities", s.model)
	}

	row := make([]float64, len(s.verbalizers))
	for label := range row {
		row[label] = absentLogprob
	}
	seen := 0
	for _, candidate := range completion.Choices[0].Logprobs.Content[0].TopLogprobs {
		label, found := s.classIndex[normalizeToken(candidate.Token)]
		if !found || row[label] != absentLogprob {
			continue
		}
		row[label] = candidate.Logprob
		seen++
	}
	if seen == 0 {
		klog.V(1).Infof("scorers: none of the %d verbalizers in the top %d logprobs for %q",
			len(s.verbalizers), defaultTopLogprobs, s.model)
	}
	return row, nil
}

// normalizeToken strips the tokenizer's word-initial marker so API tokens
// (returned with a plain leading space) compare equal to verbalizer pieces.
func normalizeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "Ġ", " ")
	tok = strings.ReplaceAll(tok, "▁", " ")
	return strings.TrimSpace(tok)
}
