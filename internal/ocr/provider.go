// Package ocr extracts text from source files, page by page for PDFs,
// through either a local Tesseract engine or the cloud worker proxy.
package ocr

import (
	"context"

	"doc-translator/internal/types"
)

// Provider recognizes text in a single raster image. The two
// implementations report progress at different granularities: the local
// engine emits sub-page stage fractions through the progress callback,
// while the cloud client emits nothing per image and leaves page-level
// fractions to the orchestrator. Callers should treat the callback as
// best-effort either way.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Recognize extracts text from one raster image given as a data URL.
	// language is the engine-facing 3-letter code. onProgress may be nil.
	Recognize(ctx context.Context, rasterDataURL, language string, onProgress types.ProgressFunc) (string, error)
	// ReportsPageFraction is true when the orchestrator should emit the
	// page/total fraction after each page because the provider itself
	// reports nothing finer.
	ReportsPageFraction() bool
}
