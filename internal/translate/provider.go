// Package translate turns extracted text into the target language through
// one of three providers: a LibreTranslate-compatible endpoint, the cloud
// worker proxy, or a direct OpenAI-compatible model.
package translate

import "context"

// SourceAuto is the sentinel source language that asks the provider to
// detect the language itself. The target language never carries it.
const SourceAuto = "auto"

// Request is one translation unit.
type Request struct {
	Text   string
	Source string // may be SourceAuto
	Target string
}

// Provider performs a single translation round-trip. Implementations are
// selected by configuration at call time.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}
