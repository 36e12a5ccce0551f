// Package pipeline is the application-level facade tying OCR, translation
// and persistence together. It owns provider selection, records completed
// runs to history and suppresses cancellations from user-facing results.
package pipeline

import (
	"context"
	"strings"

	"doc-translator/internal/document"
	"doc-translator/internal/logger"
	"doc-translator/internal/ocr"
	"doc-translator/internal/pdf"
	"doc-translator/internal/state"
	"doc-translator/internal/translate"
	"doc-translator/internal/types"
)

// OCRRunner abstracts the OCR orchestrator for injection in tests.
type OCRRunner interface {
	Run(ctx context.Context, file *document.File, language string, hooks ocr.Hooks) (string, error)
}

// Translator abstracts the translation orchestrator for injection in tests.
type Translator interface {
	Run(ctx context.Context, text, source, target string, settings types.Settings) (string, error)
	Cancel()
}

// Service wires the orchestrators to the persisted state. Constructed once
// at application start and passed to callers by reference.
type Service struct {
	store      *state.Store
	translator Translator

	// newOCRRunner builds a runner around the provider chosen for one run.
	newOCRRunner func(provider ocr.Provider) OCRRunner
}

// NewService creates the facade with default orchestrators.
func NewService(store *state.Store) *Service {
	if !pdf.PopplerAvailable() {
		logger.Warn("pdftoppm not found in PATH, PDF rasterization will fail")
	}
	return &Service{
		store:      store,
		translator: translate.NewOrchestrator(),
		newOCRRunner: func(provider ocr.Provider) OCRRunner {
			return ocr.NewOrchestrator(provider)
		},
	}
}

// NewServiceWithDeps allows injecting the orchestrators. Useful for
// testing.
func NewServiceWithDeps(store *state.Store, translator Translator, newOCRRunner func(ocr.Provider) OCRRunner) *Service {
	return &Service{store: store, translator: translator, newOCRRunner: newOCRRunner}
}

// ocrProvider selects the OCR strategy for the current settings.
func ocrProvider(settings types.Settings) (ocr.Provider, error) {
	if settings.UseCloudOCR {
		if strings.TrimSpace(settings.WorkerURL) == "" {
			return nil, types.NewAppError(types.ErrValidation, "cloud OCR requires a worker URL", nil)
		}
		return ocr.NewCloudClient(settings.WorkerURL), nil
	}
	return ocr.NewLocalEngine(), nil
}

// RunOCR extracts text from the file, persists the result and records a
// history entry. A nil file yields empty text and touches nothing. Canceled
// runs are silent: no result, no history, no error surfaced as a failure.
func (s *Service) RunOCR(ctx context.Context, file *document.File, language string, hooks ocr.Hooks) (string, error) {
	if file == nil {
		return "", nil
	}

	settings := s.store.Settings()
	provider, err := ocrProvider(settings)
	if err != nil {
		return "", err
	}

	text, err := s.newOCRRunner(provider).Run(ctx, file, language, hooks)
	if err != nil {
		if types.IsCanceled(err) {
			return "", types.Canceled(err)
		}
		return "", err
	}

	if err := s.store.SetOCRResult(text, language); err != nil {
		logger.Warn("failed to persist OCR result", logger.Err(err))
	}
	if err := s.store.AppendHistory(types.HistoryOCR, file.Name, text); err != nil {
		logger.Warn("failed to record OCR history", logger.Err(err))
	}
	return text, nil
}

// RunTranslation translates the text, persists the result and records a
// history entry. Starting a new translation cancels the one in flight; the
// superseded run leaves no trace.
func (s *Service) RunTranslation(ctx context.Context, text, source, target string) (string, error) {
	settings := s.store.Settings()

	translated, err := s.translator.Run(ctx, text, source, target, settings)
	if err != nil {
		if types.IsCanceled(err) {
			return "", types.Canceled(err)
		}
		return "", err
	}

	if err := s.store.SetTranslationResult(translated, source, target); err != nil {
		logger.Warn("failed to persist translation result", logger.Err(err))
	}
	if err := s.store.AppendHistory(types.HistoryTranslate, text, translated); err != nil {
		logger.Warn("failed to record translation history", logger.Err(err))
	}
	return translated, nil
}

// CancelTranslation aborts the in-flight translation, if any.
func (s *Service) CancelTranslation() {
	s.translator.Cancel()
}

// Settings returns the current settings record.
func (s *Service) Settings() types.Settings {
	return s.store.Settings()
}

// UpdateSettings replaces the settings record and persists the snapshot.
func (s *Service) UpdateSettings(settings types.Settings) error {
	return s.store.UpdateSettings(settings)
}

// History returns the recorded runs, newest first.
func (s *Service) History() []types.HistoryEntry {
	return s.store.History()
}

// ClearHistory drops all recorded runs.
func (s *Service) ClearHistory() error {
	return s.store.ClearHistory()
}
