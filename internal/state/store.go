// Package state persists the full application snapshot to a single JSON
// file in the program directory. The snapshot is replaced as a whole on
// every mutation; the source document itself is never stored.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const (
	// StateFileName is the name of the persisted snapshot file.
	StateFileName = "state.json"

	// MaxHistoryEntries caps the history list. Older entries fall off the
	// end when new ones are prepended.
	MaxHistoryEntries = 50

	// HistoryFieldLimit caps the recorded input and output per entry.
	HistoryFieldLimit = 500
)

// Store manages the persisted application state.
type Store struct {
	filePath string
	state    types.AppState
	mu       sync.RWMutex
}

// NewStore creates a store backed by state.json next to the executable.
func NewStore() (*Store, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to locate program directory", err)
	}
	s := &Store{
		filePath: filepath.Join(filepath.Dir(exePath), StateFileName),
		state:    types.DefaultAppState(),
	}
	_ = s.Load() // missing file means first run
	return s, nil
}

// NewStoreWithPath creates a store with a custom file path. Useful for
// testing.
func NewStoreWithPath(filePath string) *Store {
	s := &Store{
		filePath: filePath,
		state:    types.DefaultAppState(),
	}
	_ = s.Load()
	return s
}

// Load reads the snapshot from disk. A missing or unreadable file leaves
// the defaults in place.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.state = types.DefaultAppState()
			return nil
		}
		return err
	}

	var state types.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("state file is corrupt, starting from defaults",
			logger.String("path", s.filePath))
		s.state = types.DefaultAppState()
		return err
	}
	if state.History == nil {
		state.History = []types.HistoryEntry{}
	}
	s.state = state
	return nil
}

// save writes the current snapshot to disk. Callers must hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to encode state", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return types.NewAppError(types.ErrInternal, "failed to persist state", err)
	}
	return nil
}

// Save persists the current snapshot.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// State returns a copy of the full snapshot.
func (s *Store) State() types.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	state.History = append([]types.HistoryEntry(nil), s.state.History...)
	return state
}

// Settings returns the current settings.
func (s *Store) Settings() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// UpdateSettings replaces the settings record as a whole and persists.
func (s *Store) UpdateSettings(settings types.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings = settings
	return s.save()
}

// AppendHistory prepends a record of a completed run, truncating its text
// fields and evicting the oldest entry beyond the cap.
func (s *Store) AppendHistory(kind types.HistoryType, input, output string) error {
	entry := types.HistoryEntry{
		Type:      kind,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Input:     types.Truncate(input, HistoryFieldLimit),
		Output:    types.Truncate(output, HistoryFieldLimit),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.History = append([]types.HistoryEntry{entry}, s.state.History...)
	if len(s.state.History) > MaxHistoryEntries {
		s.state.History = s.state.History[:MaxHistoryEntries]
	}
	return s.save()
}

// History returns a copy of the history list, newest first.
func (s *Store) History() []types.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.HistoryEntry(nil), s.state.History...)
}

// ClearHistory empties the history list and persists.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.History = []types.HistoryEntry{}
	return s.save()
}

// SetMode updates the UI mode and persists.
func (s *Store) SetMode(mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = mode
	return s.save()
}

// SetOCRResult records the extracted text and the language it was
// recognized with.
func (s *Store) SetOCRResult(text, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.OCRText = text
	s.state.OCRLanguage = language
	return s.save()
}

// SetTranslationResult records the translated text and the language pair.
func (s *Store) SetTranslationResult(text, source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TranslationText = text
	s.state.SourceLanguage = source
	s.state.TargetLanguage = target
	return s.save()
}

// FilePath returns the snapshot file path.
func (s *Store) FilePath() string {
	return s.filePath
}
