package ppttranslator

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultTargetLanguage is used when no target language is configured.
const DefaultTargetLanguage = "Japanese"

// SupportedLanguages lists the target languages offered by default. Any
// language name the model understands works; these are the ones surfaced in
// the CLI and the job API.
var SupportedLanguages = []string{"Japanese", "English", "Chinese"}

// SupportedModels lists the model identifiers known to work with the two
// back-ends. Identifiers starting with DedicatedModelPrefix are served by
// the dedicated provider.
var SupportedModels = []string{
	"gpt-4o",
	"xai.grok-3",
	"cohere.command-r-08-2024",
	"cohere.command-r-plus-08-2024",
}

// languageTags maps the supported display names to their BCP 47 tags.
var languageTags = map[string]language.Tag{
	"Japanese": language.Japanese,
	"English":  language.English,
	"Chinese":  language.Chinese,
}

// ResolveLanguage turns user input into the language name used in prompts
// and output file names. It accepts a supported display name in any case
// ("japanese"), a BCP 47 code ("ja", "pt-BR"), or any other non-empty string,
// which is passed through verbatim so unconventional targets still work.
func ResolveLanguage(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return DefaultTargetLanguage
	}

	for name := range languageTags {
		if strings.EqualFold(name, trimmed) {
			return name
		}
	}

	if tag, err := language.Parse(trimmed); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}

	return trimmed
}

// IsSupportedLanguage reports whether the name is one of the default targets.
func IsSupportedLanguage(name string) bool {
	for _, lang := range SupportedLanguages {
		if strings.EqualFold(lang, name) {
			return true
		}
	}
	return false
}
