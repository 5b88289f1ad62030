package verbalizers

import "strings"

// TaskLM identifies the pretrained task language model being steered, e.g.
// "distilroberta-base", "bert-large-cased", "llama-2-7b" or "gpt3.5".
type TaskLM string

// Family groups task LMs by tokenizer and architecture, which decides the
// surface form of the verbalizer tokens and whether the model is a mask LM.
type Family int

const (
	UnknownFamily Family = iota
	RoBERTa
	BERT
	DeBERTa
	GPT2
	LLaMA
	OpenAI
)

// Family derives the model family from the model name.
func (lm TaskLM) Family() Family {
	name := strings.ToLower(string(lm))
	switch {
	case strings.Contains(name, "deberta"):
		return DeBERTa
	case strings.Contains(name, "roberta"):
		return RoBERTa
	case strings.Contains(name, "bert"):
		return BERT
	case strings.Contains(name, "llama"):
		return LLaMA
	case name == "gpt3.5" || name == "gpt4" || strings.HasPrefix(name, "gpt-"):
		return OpenAI
	case strings.Contains(name, "gpt"):
		return GPT2
	}
	return UnknownFamily
}

// IsMaskLM reports whether the model fills a mask token, as opposed to
// continuing the text left-to-right. Inferred from the model name, same as
// the reward configuration does when no explicit override is given.
func (lm TaskLM) IsMaskLM() bool {
	switch lm.Family() {
	case RoBERTa, BERT, DeBERTa:
		return true
	}
	return false
}

// MaskToken returns the mask token the model was pretrained with. Only
// meaningful for mask LMs.
func (lm TaskLM) MaskToken() string {
	switch lm.Family() {
	case BERT, DeBERTa:
		return "[MASK]"
	}
	return "<mask>"
}

// piecePrefix is the marker the model's tokenizer attaches to a
// word-initial token: "Ġ" for byte-level BPE vocabularies, "▁" for
// sentencepiece, nothing for wordpiece.
func (lm TaskLM) piecePrefix() string {
	switch lm.Family() {
	case BERT:
		return ""
	case LLaMA:
		return "▁"
	}
	return "Ġ"
}
