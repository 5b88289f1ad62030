package verbalizers

import (
	"fmt"
	"testing"

	"github.com/haderus/ReLAttack/datasets"
	"github.com/stretchr/testify/require"
)

func TestFamily(t *testing.T) {
	for lm, want := range map[TaskLM]Family{
		"distilroberta-base": RoBERTa,
		"roberta-large":      RoBERTa,
		"bert-large-cased":   BERT,
		"deberta-base":       DeBERTa,
		"gpt2":               GPT2,
		"gpt2-xl":            GPT2,
		"llama-2-7b":         LLaMA,
		"llama-2-13b":        LLaMA,
		"gpt3.5":             OpenAI,
		"gpt4":               OpenAI,
		"t5-base":            UnknownFamily,
	} {
		require.Equalf(t, want, lm.Family(), "family of %q", lm)
	}
}

func TestIsMaskLM(t *testing.T) {
	require.True(t, TaskLM("distilroberta-base").IsMaskLM())
	require.True(t, TaskLM("bert-large-cased").IsMaskLM())
	require.True(t, TaskLM("deberta-base").IsMaskLM())
	require.False(t, TaskLM("gpt2").IsMaskLM())
	require.False(t, TaskLM("llama-2-7b").IsMaskLM())
	require.False(t, TaskLM("gpt3.5").IsMaskLM())
}

func TestForDataset(t *testing.T) {
	set, err := ForDataset(datasets.Yelp, "distilroberta-base")
	require.NoError(t, err)
	require.Equal(t, []string{"Ġterrible", "Ġgreat"}, set.Tokens)
	require.Equal(t, 2, set.NumClasses())

	set, err = ForDataset(datasets.Yelp, "bert-large-cased")
	require.NoError(t, err)
	require.Equal(t, []string{"terrible", "great"}, set.Tokens)

	set, err = ForDataset(datasets.CoLA, "llama-2-7b")
	require.NoError(t, err)
	require.Equal(t, []string{"▁terrible", "▁great"}, set.Tokens)

	set, err = ForDataset(datasets.QuAC, "gpt4")
	require.NoError(t, err)
	require.Equal(t, []string{"Ġterrible", "Ġgreat"}, set.Tokens)

	set, err = ForDataset(datasets.AGNews, "distilroberta-base")
	require.NoError(t, err)
	require.Equal(t, []string{"ĠWorld", "ĠSports", "ĠBusiness", "ĠTech"}, set.Tokens)
	require.Equal(t, 4, set.NumClasses())

	_, err = ForDataset(datasets.UnknownName, "gpt2")
	fmt.Printf("\texpected error for unknown dataset: %v\n", err)
	require.ErrorContains(t, err, "no verbalizers defined")
}

func TestTemplateFor(t *testing.T) {
	require.Equal(t, Template("[MASK] {clean_prompt} {sentence}"),
		TemplateFor(datasets.AGNews, "deberta-base"))
	require.Equal(t, Template("<mask> {clean_prompt} {sentence}"),
		TemplateFor(datasets.AGNews, "distilroberta-base"))
	require.Equal(t, Template("<mask> {clean_prompt} {sentence}"),
		TemplateFor(datasets.AGNews, "llama-2-7b"))
	require.True(t, TemplateFor(datasets.AGNews, "gpt2").IsZero())
	require.True(t, TemplateFor(datasets.AGNews, "gpt3.5").IsZero())
	require.True(t, TemplateFor(datasets.Yelp, "distilroberta-base").IsZero())
}

func TestTemplateRender(t *testing.T) {
	tmpl := Template("<mask> {clean_prompt} {sentence}")
	got := tmpl.Render(Fields{CleanPrompt: "In summary the news is about", Sentence: "stocks rallied ."})
	require.Equal(t, "<mask> In summary the news is about stocks rallied .", got)

	// Missing fields leave no placeholder residue, just trimmed whitespace.
	got = Template("{prompt} {sentence}").Render(Fields{Sentence: "x"})
	require.Equal(t, "x", got)
}
