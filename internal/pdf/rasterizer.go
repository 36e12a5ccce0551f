// Package pdf provides PDF inspection and page-to-image rasterization for
// the OCR pipeline.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"doc-translator/internal/document"
	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const (
	// OCRScale is the render scale used for recognition input. Higher
	// fidelity costs memory; one page is in flight at a time.
	OCRScale = 2.0
	// PreviewScale is the lower scale used by preview contexts.
	PreviewScale = 1.6

	// basePDFDPI is the PDF point resolution the scale multiplies.
	basePDFDPI = 72
)

// Rasterizer renders single PDF pages to PNG data URLs using poppler's
// pdftoppm, the same renderer the rest of the toolchain relies on.
type Rasterizer struct {
	dpi     int
	tempDir string
}

// NewRasterizer creates a rasterizer for the given render scale.
func NewRasterizer(scale float64) *Rasterizer {
	if scale <= 0 {
		scale = OCRScale
	}
	return &Rasterizer{dpi: int(basePDFDPI * scale)}
}

// PopplerAvailable reports whether pdftoppm can be invoked.
func PopplerAvailable() bool {
	return exec.Command("pdftoppm", "-v").Run() == nil
}

// PageCount opens the document and returns its total page count.
// ledongthuc/pdf handles some documents pdfcpu rejects, so it is the
// authority for counting; pdfcpu validates structure first.
func PageCount(pdfPath string) (int, error) {
	if err := api.ValidateFile(pdfPath, nil); err != nil {
		return 0, types.NewAppError(types.ErrRender, "invalid PDF document", err)
	}
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return 0, types.NewAppError(types.ErrRender, "failed to open PDF document", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// HasTextLayer probes the first pages for an extractable text layer. The
// result is informational: callers may warn that OCR is unnecessary, but a
// run always rasterizes.
func HasTextLayer(pdfPath string) bool {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return false
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text, err := page.GetPlainText(nil); err == nil && len(text) > 0 {
			return true
		}
	}
	return false
}

// Render rasterizes one 1-based page to a PNG data URL. A failure here is
// fatal for the page; the orchestrator aborts the whole run on it.
func (r *Rasterizer) Render(ctx context.Context, pdfPath string, pageNum int) (string, error) {
	logger.Debug("rendering PDF page",
		logger.String("pdf", filepath.Base(pdfPath)),
		logger.Int("page", pageNum),
		logger.Int("dpi", r.dpi))

	if r.tempDir == "" {
		tempDir, err := os.MkdirTemp("", "pdf2img_*")
		if err != nil {
			return "", types.NewAppError(types.ErrRender, "failed to create temp dir", err)
		}
		r.tempDir = tempDir
	}

	outputPrefix := filepath.Join(r.tempDir, fmt.Sprintf("page_%d", pageNum))
	args := []string{
		"-f", fmt.Sprintf("%d", pageNum),
		"-l", fmt.Sprintf("%d", pageNum),
		"-png",
		"-r", fmt.Sprintf("%d", r.dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	}

	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return "", types.Canceled(ctx.Err())
		}
		return "", types.NewAppErrorWithDetails(types.ErrRender,
			fmt.Sprintf("failed to rasterize page %d", pageNum), string(output), err)
	}

	imgPath := outputPrefix + ".png"
	png, err := os.ReadFile(imgPath)
	if err != nil {
		return "", types.NewAppError(types.ErrRender, "failed to read rendered page", err)
	}
	os.Remove(imgPath)

	logger.Debug("page rendered", logger.Int("page", pageNum), logger.Int("bytes", len(png)))
	return document.EncodePNGDataURL(png), nil
}

// Cleanup removes the rasterizer's temporary files.
func (r *Rasterizer) Cleanup() {
	if r.tempDir != "" {
		os.RemoveAll(r.tempDir)
		r.tempDir = ""
	}
}
