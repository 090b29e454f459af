package ppttranslator

import "strings"

// Prompts holds the system and user prompt templates sent to providers. The
// user template understands two variables: {{target}} expands to the target
// language name and {{text}} to the source text of the unit.
type Prompts struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

const defaultSystemPrompt = `You are a professional translator specializing in presentation slides. You preserve inline markers exactly and match the concise register that slide content uses.`

const defaultUserPrompt = `Translate the following text into {{target}}.

Rules:
1. Keep the concise style of presentation slides. Prefer short noun phrases over full sentences where the source does.
2. Follow the conventions of the target language: in Japanese use plain form instead of desu/masu endings, in Chinese use direct professional wording, in English favor brevity and clarity.
3. Markers of the form [PLACEHOLDER_X] must be kept exactly as they are: same spelling, same count, same position relative to the text they precede. Never translate, merge, or reorder them.
4. Do not translate numbers, product names, or acronyms.
5. Output only the translated text, with no explanations and no commentary.

Text: {{text}}`

// DefaultPrompts returns the built-in prompt templates.
func DefaultPrompts() Prompts {
	return Prompts{
		System: defaultSystemPrompt,
		User:   defaultUserPrompt,
	}
}

// BuildUser renders the user template for one unit.
func (p Prompts) BuildUser(targetLang, text string) string {
	out := strings.ReplaceAll(p.User, "{{target}}", targetLang)
	return strings.ReplaceAll(out, "{{text}}", text)
}
