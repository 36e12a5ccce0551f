package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"doc-translator/internal/document"
	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// LocalEngine recognizes text with a local Tesseract instance. A fresh
// client is created and closed per image so one page's failure cannot
// poison the next; cross-page client reuse is a possible optimization but
// must keep that isolation.
type LocalEngine struct {
	clientFactory func() *gosseract.Client
}

// NewLocalEngine constructs the Tesseract-backed provider.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{clientFactory: gosseract.NewClient}
}

// Name implements Provider.
func (e *LocalEngine) Name() string { return "tesseract" }

// ReportsPageFraction implements Provider. The local engine reports its own
// stage fractions, so the orchestrator stays silent on the fraction channel.
func (e *LocalEngine) ReportsPageFraction() bool { return false }

// Recognize implements Provider. Tesseract exposes no incremental progress
// hook, so the callback receives coarse stage fractions: model ready, image
// loaded, recognition done.
func (e *LocalEngine) Recognize(ctx context.Context, rasterDataURL, language string, onProgress types.ProgressFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", types.Canceled(err)
	}

	emit := func(f float64) {
		if onProgress != nil {
			onProgress(types.ProgressEvent{Fraction: f})
		}
	}

	_, img, err := document.DecodeDataURL(rasterDataURL)
	if err != nil {
		return "", types.NewAppError(types.ErrOCR, "invalid raster image", err)
	}

	client := e.clientFactory()
	defer client.Close()

	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			return "", types.NewAppErrorWithDetails(types.ErrOCR, "failed to load OCR language", language, err)
		}
	}
	emit(0.1)

	if err := client.SetImageFromBytes(img); err != nil {
		return "", types.NewAppError(types.ErrOCR, "failed to load image into OCR engine", err)
	}
	emit(0.5)

	text, err := client.Text()
	if err != nil {
		return "", types.NewAppError(types.ErrOCR, "text recognition failed", err)
	}
	emit(1.0)

	logger.Debug("local recognition done",
		logger.String("language", language),
		logger.Int("chars", len(text)))
	return strings.TrimSpace(text), nil
}
