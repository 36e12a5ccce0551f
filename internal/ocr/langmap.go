package ocr

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageHints maps the recognition engine's 3-letter language codes to the
// 2-letter hints the cloud endpoint understands. An absent mapping means the
// hint is omitted and the remote service auto-detects.
var languageHints = map[string]string{
	"eng": "en",
	"tur": "tr",
	"jpn": "ja",
	"deu": "de",
	"fra": "fr",
	"spa": "es",
	"ita": "it",
	"rus": "ru",
}

// Hint translates an engine language code to its cloud hint. ok is false
// when the code has no mapping.
func Hint(engineCode string) (hint string, ok bool) {
	hint, ok = languageHints[engineCode]
	return hint, ok
}

// Language describes one supported recognition language.
type Language struct {
	EngineCode string // 3-letter, engine-facing
	HintCode   string // 2-letter, cloud-facing
	Name       string // English display name
}

// SupportedLanguages returns the recognition languages in a stable order
// with display names resolved from their tags.
func SupportedLanguages() []Language {
	codes := []string{"eng", "tur", "jpn", "deu", "fra", "spa", "ita", "rus"}
	namer := display.English.Tags()
	out := make([]Language, 0, len(codes))
	for _, c := range codes {
		hint := languageHints[c]
		name := ""
		if tag, err := language.Parse(hint); err == nil {
			name = namer.Name(tag)
		}
		out = append(out, Language{EngineCode: c, HintCode: hint, Name: name})
	}
	return out
}
