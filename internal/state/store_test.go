package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"doc-translator/internal/types"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreWithPath(filepath.Join(t.TempDir(), "state.json"))
}

func TestDefaultsOnMissingFile(t *testing.T) {
	s := tempStore(t)
	state := s.State()

	if state.Mode != "dark" {
		t.Errorf("mode = %q", state.Mode)
	}
	if state.OCRLanguage != "eng" || state.SourceLanguage != "auto" || state.TargetLanguage != "tr" {
		t.Errorf("unexpected language defaults: %+v", state)
	}
	settings := state.Settings
	if settings.APIURL != "https://libretranslate.com/translate" {
		t.Errorf("apiUrl = %q", settings.APIURL)
	}
	if settings.MaxCharacters != 8000 {
		t.Errorf("maxCharacters = %d", settings.MaxCharacters)
	}
	if settings.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("openAiModel = %q", settings.OpenAIModel)
	}
	if settings.UseCloudOCR || settings.UseCloudTranslate {
		t.Error("cloud toggles must default to off")
	}
	if len(state.History) != 0 {
		t.Errorf("history not empty: %v", state.History)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStoreWithPath(path)

	updated := s.Settings()
	updated.WorkerURL = "https://worker.example.com"
	updated.UseCloudTranslate = true
	updated.MaxCharacters = 4000
	if err := s.UpdateSettings(updated); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	// fresh load from disk must reproduce the exact record
	fresh := NewStoreWithPath(path)
	if got := fresh.Settings(); got != updated {
		t.Errorf("reloaded settings = %+v, want %+v", got, updated)
	}
}

func TestHistoryCapAndOrder(t *testing.T) {
	s := tempStore(t)

	for i := 1; i <= MaxHistoryEntries+1; i++ {
		if err := s.AppendHistory(types.HistoryOCR, fmt.Sprintf("input-%d", i), fmt.Sprintf("output-%d", i)); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}
	}

	history := s.History()
	if len(history) != MaxHistoryEntries {
		t.Fatalf("len = %d, want %d", len(history), MaxHistoryEntries)
	}
	if history[0].Input != fmt.Sprintf("input-%d", MaxHistoryEntries+1) {
		t.Errorf("newest entry = %q, want the last appended", history[0].Input)
	}
	for _, e := range history {
		if e.Input == "input-1" {
			t.Error("oldest entry must be evicted")
		}
	}
}

func TestHistoryTruncation(t *testing.T) {
	s := tempStore(t)

	long := strings.Repeat("x", HistoryFieldLimit+100)
	if err := s.AppendHistory(types.HistoryTranslate, long, long); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}

	entry := s.History()[0]
	if len(entry.Input) != HistoryFieldLimit || len(entry.Output) != HistoryFieldLimit {
		t.Errorf("entry not truncated: input=%d output=%d", len(entry.Input), len(entry.Output))
	}
	if entry.Type != types.HistoryTranslate {
		t.Errorf("type = %q", entry.Type)
	}
	if entry.CreatedAt == "" {
		t.Error("createdAt not set")
	}
}

func TestHistoryPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStoreWithPath(path)
	if err := s.AppendHistory(types.HistoryOCR, "doc.pdf", "text"); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}

	fresh := NewStoreWithPath(path)
	history := fresh.History()
	if len(history) != 1 || history[0].Input != "doc.pdf" {
		t.Errorf("reloaded history = %v", history)
	}
}

func TestClearHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStoreWithPath(path)
	s.AppendHistory(types.HistoryOCR, "a", "b")
	if err := s.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	if len(s.History()) != 0 {
		t.Error("history not cleared")
	}
	fresh := NewStoreWithPath(path)
	if len(fresh.History()) != 0 {
		t.Error("cleared history resurfaced after reload")
	}
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewStoreWithPath(path)
	if s.Settings() != types.DefaultSettings() {
		t.Errorf("corrupt file must yield defaults, got %+v", s.Settings())
	}
}

func TestResultSettersPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStoreWithPath(path)

	if err := s.SetOCRResult("scanned text", "deu"); err != nil {
		t.Fatalf("SetOCRResult() error = %v", err)
	}
	if err := s.SetTranslationResult("übersetzt", "de", "tr"); err != nil {
		t.Fatalf("SetTranslationResult() error = %v", err)
	}

	fresh := NewStoreWithPath(path).State()
	if fresh.OCRText != "scanned text" || fresh.OCRLanguage != "deu" {
		t.Errorf("OCR result not persisted: %+v", fresh)
	}
	if fresh.TranslationText != "übersetzt" || fresh.SourceLanguage != "de" || fresh.TargetLanguage != "tr" {
		t.Errorf("translation result not persisted: %+v", fresh)
	}
}
