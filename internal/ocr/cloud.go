package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"doc-translator/internal/document"
	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// cloudRequestTimeout bounds a single recognition round-trip.
const cloudRequestTimeout = 120 * time.Second

// CloudClient sends raster images to the worker proxy's vision route.
type CloudClient struct {
	workerURL string
	client    *http.Client
}

// NewCloudClient creates a client for the given worker base URL. Trailing
// slashes are stripped.
func NewCloudClient(workerURL string) *CloudClient {
	return &CloudClient{
		workerURL: document.NormalizeBaseURL(workerURL),
		client:    &http.Client{Timeout: cloudRequestTimeout},
	}
}

// Name implements Provider.
func (c *CloudClient) Name() string { return "cloud-vision" }

// ReportsPageFraction implements Provider. The proxy reports only page
// completion, so the orchestrator emits pageNumber/totalPages itself.
func (c *CloudClient) ReportsPageFraction() bool { return true }

type cloudOCRRequest struct {
	Image        string `json:"image"`
	LanguageHint string `json:"languageHint,omitempty"`
}

type cloudOCRResponse struct {
	Text string `json:"text"`
}

// Recognize implements Provider. The engine-facing 3-letter language code
// is mapped to a 2-letter hint; unmapped codes send no hint at all so the
// remote service auto-detects.
func (c *CloudClient) Recognize(ctx context.Context, rasterDataURL, language string, onProgress types.ProgressFunc) (string, error) {
	if c.workerURL == "" {
		return "", types.NewAppError(types.ErrConfig, "worker URL is not configured", nil)
	}

	payload := cloudOCRRequest{Image: rasterDataURL}
	if hint, ok := Hint(language); ok {
		payload.LanguageHint = hint
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to encode OCR request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.workerURL+"/v1/vision/ocr", bytes.NewReader(body))
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create OCR request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return "", types.Canceled(err)
		}
		return "", types.NewAppError(types.ErrUpstream, "cloud OCR request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewAppError(types.ErrUpstream, "failed to read cloud OCR response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(bytes.TrimSpace(respBody))
		if msg == "" {
			msg = "cloud OCR failed"
		}
		logger.Error("cloud OCR returned error status", nil,
			logger.Int("status", resp.StatusCode))
		return "", types.NewAppError(types.ErrUpstream, msg, nil)
	}

	var out cloudOCRResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", types.NewAppError(types.ErrUpstream, "invalid cloud OCR response", err)
	}
	return out.Text, nil
}
