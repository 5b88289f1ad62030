package verbalizers

import (
	"strings"

	"github.com/haderus/ReLAttack/datasets"
)

// Template is a prompt layout with "{clean_prompt}", "{prompt}" and
// "{sentence}" placeholders. An empty Template means the reward should use
// its default layout.
type Template string

// Fields are the substitutions available to a Template.
type Fields struct {
	// Prompt is the candidate prompt being scored.
	Prompt string

	// CleanPrompt is the fixed, human-written prompt the candidate is
	// appended to.
	CleanPrompt string

	// Sentence is the source text of the example being classified.
	Sentence string
}

// TemplateFor returns the prompt template for the dataset/task-LM pair, or
// an empty Template when the reward's default layout applies.
//
// Only AGNews carries explicit templates: DeBERTa spells its mask token
// "[MASK]", the other mask LMs "<mask>", and the left-to-right GPT-style
// models take no mask at all.
func TemplateFor(name datasets.Name, lm TaskLM) Template {
	if name != datasets.AGNews {
		return ""
	}
	if lm.Family() == DeBERTa {
		return "[MASK] {clean_prompt} {sentence}"
	}
	if !strings.Contains(strings.ToLower(string(lm)), "gpt") {
		return "<mask> {clean_prompt} {sentence}"
	}
	return ""
}

// IsZero reports whether no template is set.
func (t Template) IsZero() bool { return t == "" }

// Render substitutes the placeholders with the given fields.
func (t Template) Render(f Fields) string {
	r := strings.NewReplacer(
		"{prompt}", f.Prompt,
		"{clean_prompt}", f.CleanPrompt,
		"{sentence}", f.Sentence,
	)
	return strings.TrimSpace(r.Replace(string(t)))
}
