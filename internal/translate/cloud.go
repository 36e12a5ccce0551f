package translate

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

// cloudTranslateTimeout bounds one proxy round-trip. Model latency
// dominates, so it is generous.
const cloudTranslateTimeout = 120 * time.Second

// CloudClient talks to the worker proxy's translation route.
type CloudClient struct {
	workerURL string
	model     string
	client    *http.Client
}

// NewCloudClient creates a client for the given worker base URL and model.
func NewCloudClient(workerURL, model string) *CloudClient {
	return &CloudClient{
		workerURL: document.NormalizeBaseURL(workerURL),
		model:     model,
		client:    &http.Client{Timeout: cloudTranslateTimeout},
	}
}

// Name implements Provider.
func (c *CloudClient) Name() string { return "cloud-openai" }

type cloudTranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
	Model  string `json:"model"`
}

type cloudTranslateResponse struct {
	Translation string `json:"translation"`
}

// Translate implements Provider.
func (c *CloudClient) Translate(ctx context.Context, req Request) (string, error) {
	if c.workerURL == "" {
		return "", types.NewAppError(types.ErrConfig, "worker URL is not configured", nil)
	}

	body, err := json.Marshal(cloudTranslateRequest{
		Text:   req.Text,
		Source: req.Source,
		Target: req.Target,
		Model:  c.model,
	})
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to encode translation request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.workerURL+"/v1/openai/translate", bytes.NewReader(body))
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create translation request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return "", types.Canceled(err)
		}
		return "", types.NewAppError(types.ErrUpstream, "cloud translation request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewAppError(types.ErrUpstream, "failed to read cloud translation response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(bytes.TrimSpace(respBody))
		if msg == "" {
			msg = "cloud translation failed"
		}
		logger.Error("cloud translation returned error status", nil,
			logger.Int("status", resp.StatusCode))
		return "", types.NewAppError(types.ErrUpstream, msg, nil)
	}

	var out cloudTranslateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", types.NewAppError(types.ErrUpstream, "invalid cloud translation response", err)
	}
	return out.Translation, nil
}
