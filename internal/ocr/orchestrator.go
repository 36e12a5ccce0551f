package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"doc-translator/internal/document"
	"doc-translator/internal/logger"
	"doc-translator/internal/pdf"
	"doc-translator/internal/types"
)

// pageMarker prefixes each page's text in a multi-page result.
const pageMarker = "\n\n--- Page %d ---\n%s"

// Renderer rasterizes one PDF page to a PNG data URL.
type Renderer interface {
	Render(ctx context.Context, pdfPath string, pageNum int) (string, error)
	Cleanup()
}

// Hooks carries the two progress channels of a run. Fractional progress and
// the discrete page counter are deliberately separate signals.
type Hooks struct {
	OnProgress     types.ProgressFunc
	OnPageProgress types.PageProgressFunc
}

// Orchestrator drives a full OCR run: single image pass-through or
// sequential page-by-page recognition for PDFs.
type Orchestrator struct {
	provider    Provider
	newRenderer func() Renderer
	pageCount   func(pdfPath string) (int, error)
}

// NewOrchestrator wires the default rasterizer behind the given provider.
func NewOrchestrator(provider Provider) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		newRenderer: func() Renderer { return pdf.NewRasterizer(pdf.OCRScale) },
		pageCount:   pdf.PageCount,
	}
}

// NewOrchestratorWithDeps allows injecting the renderer and page counter.
// Useful for testing.
func NewOrchestratorWithDeps(provider Provider, newRenderer func() Renderer, pageCount func(string) (int, error)) *Orchestrator {
	return &Orchestrator{provider: provider, newRenderer: newRenderer, pageCount: pageCount}
}

// Run extracts text from the file. A nil file is an explicit no-op. Pages
// of a PDF are processed strictly in ascending order, one raster buffer in
// flight at a time; any failure aborts the run and discards everything
// accumulated so far.
func (o *Orchestrator) Run(ctx context.Context, file *document.File, language string, hooks Hooks) (string, error) {
	if file == nil {
		return "", nil
	}

	meta := document.MetaOf(file)
	logger.Info("starting OCR run",
		logger.String("provider", o.provider.Name()),
		logger.String("file", meta.Name),
		logger.String("size", document.FormatBytes(int64(meta.Size))),
		logger.String("language", language))

	if !document.IsPDF(file) {
		text, err := o.provider.Recognize(ctx, document.ToDataURL(file), language, hooks.OnProgress)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}

	return o.runPDF(ctx, file, language, hooks)
}

func (o *Orchestrator) runPDF(ctx context.Context, file *document.File, language string, hooks Hooks) (string, error) {
	tmp, err := os.CreateTemp("", "ocr_input_*.pdf")
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to stage PDF for rendering", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(file.Data); err != nil {
		tmp.Close()
		return "", types.NewAppError(types.ErrInternal, "failed to stage PDF for rendering", err)
	}
	if err := tmp.Close(); err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to stage PDF for rendering", err)
	}

	totalPages, err := o.pageCount(tmpPath)
	if err != nil {
		return "", err
	}
	logger.Info("processing PDF pages", logger.Int("pages", totalPages))

	renderer := o.newRenderer()
	defer renderer.Cleanup()

	var combined strings.Builder
	for pageNumber := 1; pageNumber <= totalPages; pageNumber++ {
		if err := ctx.Err(); err != nil {
			return "", types.Canceled(err)
		}

		rasterDataURL, err := renderer.Render(ctx, tmpPath, pageNumber)
		if err != nil {
			logger.Error("OCR run aborted", err, logger.Int("page", pageNumber))
			return "", err
		}

		pageText, err := o.provider.Recognize(ctx, rasterDataURL, language, hooks.OnProgress)
		if err != nil {
			logger.Error("OCR run aborted", err, logger.Int("page", pageNumber))
			return "", err
		}

		fmt.Fprintf(&combined, pageMarker, pageNumber, strings.TrimSpace(pageText))

		if hooks.OnPageProgress != nil {
			hooks.OnPageProgress(pageNumber, totalPages)
		}
		if o.provider.ReportsPageFraction() && hooks.OnProgress != nil {
			hooks.OnProgress(types.ProgressEvent{Fraction: float64(pageNumber) / float64(totalPages)})
		}
	}

	return strings.TrimSpace(combined.String()), nil
}
