package ocr

import "testing"

func TestHint(t *testing.T) {
	tests := []struct {
		code   string
		want   string
		wantOK bool
	}{
		{"eng", "en", true},
		{"tur", "tr", true},
		{"jpn", "ja", true},
		{"deu", "de", true},
		{"fra", "fr", true},
		{"spa", "es", true},
		{"ita", "it", true},
		{"rus", "ru", true},
		{"xx", "", false},
		{"", "", false},
		{"EN", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := Hint(tt.code)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Hint(%q) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) != 8 {
		t.Fatalf("got %d languages, want 8", len(langs))
	}
	if langs[0].EngineCode != "eng" || langs[0].HintCode != "en" {
		t.Errorf("first language = %+v", langs[0])
	}
	for _, l := range langs {
		if l.Name == "" {
			t.Errorf("language %s has no display name", l.EngineCode)
		}
	}
}
