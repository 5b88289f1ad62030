// Package rewards scores discrete candidate prompts by how well they steer a
// pretrained task language model toward correct class predictions.
//
// The reward for one prompt is the mean, over the dataset's examples, of the
// margin between the gold class logit and the best other class logit, scaled
// by CorrectCoeff when the model classifies the example correctly under the
// prompt and by IncorrectCoeff when it doesn't. Margins come from a
// scorers.Scorer; this package never runs the model itself.
package rewards

import (
	"context"
	"math"
	"strings"

	"github.com/haderus/ReLAttack/datasets"
	"github.com/haderus/ReLAttack/scorers"
	"github.com/haderus/ReLAttack/verbalizers"
	"github.com/pkg/errors"
)

// Config configures the prompted-classification reward.
type Config struct {
	// TaskLM being steered.
	TaskLM verbalizers.TaskLM

	// IsMaskLM overrides the mask-LM inference from the model name when set.
	IsMaskLM *bool

	// ComputeZScore normalizes the rewards across each batch of prompts.
	ComputeZScore bool

	// IncorrectCoeff and CorrectCoeff scale the logit margin for wrongly and
	// correctly classified examples.
	IncorrectCoeff float64
	CorrectCoeff   float64

	// CleanPrompt is the fixed, human-written prompt the candidate prompt is
	// appended to. Empty outside the adversarial setting.
	CleanPrompt string

	// TargetLabel, when set, scores prompts toward this class for every
	// example instead of toward each example's gold label.
	TargetLabel *int
}

// DefaultConfig returns the reward configuration defaults.
func DefaultConfig() Config {
	return Config{
		TaskLM:         "distilroberta-base",
		ComputeZScore:  true,
		IncorrectCoeff: 180.0,
		CorrectCoeff:   200.0,
	}
}

// PromptedClassificationReward scores candidate prompts against a few-shot
// classification dataset.
type PromptedClassificationReward struct {
	scorer   scorers.Scorer
	set      verbalizers.Set
	template verbalizers.Template
	cfg      Config
	maskLM   bool
}

// New creates the reward from a scorer, the verbalizer set and optional
// template picked for the dataset/task-LM pair, and the configuration.
func New(scorer scorers.Scorer, set verbalizers.Set, template verbalizers.Template, cfg Config) (*PromptedClassificationReward, error) {
	if set.NumClasses() < 2 {
		return nil, errors.Errorf("need at least 2 classes, got %d verbalizers", set.NumClasses())
	}
	if scorer.NumClasses() != set.NumClasses() {
		return nil, errors.Errorf("scorer produces %d class logits but the verbalizer set has %d classes",
			scorer.NumClasses(), set.NumClasses())
	}
	if cfg.TargetLabel != nil && (*cfg.TargetLabel < 0 || *cfg.TargetLabel >= set.NumClasses()) {
		return nil, errors.Errorf("target label %d outside the %d classes", *cfg.TargetLabel, set.NumClasses())
	}
	maskLM := cfg.TaskLM.IsMaskLM()
	if cfg.IsMaskLM != nil {
		maskLM = *cfg.IsMaskLM
	}
	return &PromptedClassificationReward{
		scorer:   scorer,
		set:      set,
		template: template,
		cfg:      cfg,
		maskLM:   maskLM,
	}, nil
}

// NumClasses of the underlying classification task.
func (r *PromptedClassificationReward) NumClasses() int { return r.set.NumClasses() }

// Evaluate scores each candidate prompt against the dataset, in order.
// When ComputeZScore is set the scores are normalized across the batch of
// prompts: a singleton or zero-variance batch normalizes to all zeros.
func (r *PromptedClassificationReward) Evaluate(ctx context.Context, prompts []string, ds *datasets.Dataset) ([]float64, error) {
	scores := make([]float64, len(prompts))
	for i, prompt := range prompts {
		score, _, err := r.EvaluatePrompt(ctx, prompt, ds)
		if err != nil {
			return nil, errors.WithMessagef(err, "evaluating prompt %d of %d", i, len(prompts))
		}
		scores[i] = score
	}
	if r.cfg.ComputeZScore {
		scores = zScores(scores)
	}
	return scores, nil
}

// EvaluatePrompt scores a single candidate prompt, returning the raw
// (un-normalized) reward and the classification accuracy under the prompt.
func (r *PromptedClassificationReward) EvaluatePrompt(ctx context.Context, prompt string, ds *datasets.Dataset) (reward, accuracy float64, err error) {
	if ds.Len() == 0 {
		return 0, 0, nil
	}
	texts := make([]string, ds.Len())
	for i, sourceText := range ds.SourceTexts {
		texts[i] = r.fill(prompt, sourceText)
	}
	logits, err := r.scorer.ClassLogits(ctx, texts)
	if err != nil {
		return 0, 0, err
	}
	if len(logits) != ds.Len() {
		return 0, 0, errors.Errorf("scorer returned %d rows for %d texts", len(logits), ds.Len())
	}

	var total float64
	var numCorrect int
	for i, row := range logits {
		if len(row) != r.NumClasses() {
			return 0, 0, errors.Errorf("scorer returned %d logits for example %d, want %d", len(row), i, r.NumClasses())
		}
		gold := ds.ClassLabels[i]
		if r.cfg.TargetLabel != nil {
			gold = *r.cfg.TargetLabel
		}
		if gold < 0 || gold >= r.NumClasses() {
			return 0, 0, errors.Errorf("example %d has label %d outside the %d classes", i, gold, r.NumClasses())
		}
		gap, correct := labelGap(row, gold)
		if correct {
			total += r.cfg.CorrectCoeff * gap
			numCorrect++
		} else {
			total += r.cfg.IncorrectCoeff * gap
		}
	}
	n := float64(ds.Len())
	return total / n, float64(numCorrect) / n, nil
}

// fill builds the text presented to the task LM for one example.
//
// With a template, the candidate prompt is appended to the clean prompt and
// substituted into the template. Without one, the default layout is the mask
// token (mask LMs only) followed by clean prompt, candidate prompt and
// source text.
func (r *PromptedClassificationReward) fill(prompt, sourceText string) string {
	if !r.template.IsZero() {
		clean := strings.TrimSpace(strings.TrimSpace(r.cfg.CleanPrompt) + " " + prompt)
		return r.template.Render(verbalizers.Fields{
			Prompt:      prompt,
			CleanPrompt: clean,
			Sentence:    sourceText,
		})
	}
	parts := make([]string, 0, 4)
	if r.maskLM {
		parts = append(parts, r.cfg.TaskLM.MaskToken())
	}
	for _, part := range []string{r.cfg.CleanPrompt, prompt, sourceText} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// labelGap returns the margin between the gold-class logit and the best
// other class, and whether gold is the argmax.
func labelGap(logits []float64, gold int) (gap float64, correct bool) {
	bestOther := math.Inf(-1)
	for label, logit := range logits {
		if label != gold && logit > bestOther {
			bestOther = logit
		}
	}
	gap = logits[gold] - bestOther
	return gap, gap > 0
}
