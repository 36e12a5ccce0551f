package translate

import (
	"context"
	"strings"
	"sync"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// ProviderFactory builds the provider to use for one run based on the
// current settings. Kept as a function so tests can swap it.
type ProviderFactory func(settings types.Settings) Provider

// DefaultProviderFactory picks the cloud proxy when the toggle is on, the
// direct model when a direct OpenAI key is configured, and the
// LibreTranslate endpoint otherwise.
func DefaultProviderFactory(settings types.Settings) Provider {
	if settings.UseCloudTranslate {
		return NewCloudClient(settings.WorkerURL, settings.OpenAIModel)
	}
	if settings.OpenAIAPIKey != "" {
		return NewOpenAIProvider(settings.OpenAIAPIKey, "", settings.OpenAIModel)
	}
	return NewLocalClient(settings.APIURL, settings.APIKey)
}

// Orchestrator validates, dispatches and serializes translation runs.
// Starting a new run cancels the one still in flight; only one translation
// is ever active.
type Orchestrator struct {
	factory ProviderFactory

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewOrchestrator creates an orchestrator with the default provider
// selection.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{factory: DefaultProviderFactory}
}

// NewOrchestratorWithFactory allows injecting provider selection. Useful
// for testing.
func NewOrchestratorWithFactory(factory ProviderFactory) *Orchestrator {
	return &Orchestrator{factory: factory}
}

// begin claims the single translation slot, canceling whatever held it.
func (o *Orchestrator) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	return runCtx, cancel
}

// end releases this run's context. The slot itself is left alone: a newer
// run may already hold it.
func (o *Orchestrator) end(cancel context.CancelFunc) {
	cancel()
}

// Cancel aborts the in-flight run, if any.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Run validates the request against the current settings and performs one
// translation. All validation happens before any network I/O.
func (o *Orchestrator) Run(ctx context.Context, text, source, target string, settings types.Settings) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", types.NewAppError(types.ErrValidation, "there is no text to translate", nil)
	}
	if len([]rune(text)) > settings.MaxCharacters {
		return "", types.NewAppErrorWithDetails(types.ErrValidation,
			"text exceeds the character limit",
			"raise the limit in settings or shorten the input", nil)
	}
	if settings.UseCloudTranslate && strings.TrimSpace(settings.WorkerURL) == "" {
		return "", types.NewAppError(types.ErrValidation, "cloud translation requires a worker URL", nil)
	}
	if source == "" {
		source = SourceAuto
	}

	runCtx, cancel := o.begin(ctx)
	defer o.end(cancel)

	provider := o.factory(settings)
	logger.Info("starting translation",
		logger.String("provider", provider.Name()),
		logger.String("source", source),
		logger.String("target", target),
		logger.Int("chars", len([]rune(text))))

	result, err := provider.Translate(runCtx, Request{Text: text, Source: source, Target: target})
	if err != nil {
		if types.IsCanceled(err) {
			logger.Info("translation canceled")
			return "", types.Canceled(err)
		}
		logger.Error("translation failed", err, logger.String("provider", provider.Name()))
		return "", err
	}
	return result, nil
}
