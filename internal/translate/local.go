package translate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// localRequestTimeout bounds one LibreTranslate round-trip.
const localRequestTimeout = 60 * time.Second

// LocalClient talks to a LibreTranslate-compatible endpoint.
type LocalClient struct {
	apiURL string
	apiKey string
	http   *resty.Client
}

// NewLocalClient creates a client for the given endpoint. The API key is
// optional and only sent when non-empty.
func NewLocalClient(apiURL, apiKey string) *LocalClient {
	return &LocalClient{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   resty.New().SetTimeout(localRequestTimeout),
	}
}

// Name implements Provider.
func (c *LocalClient) Name() string { return "libretranslate" }

type localTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate implements Provider.
func (c *LocalClient) Translate(ctx context.Context, req Request) (string, error) {
	payload := map[string]string{
		"q":      req.Text,
		"source": req.Source,
		"target": req.Target,
		"format": "text",
	}
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}

	var out localTranslateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&out).
		Post(c.apiURL)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return "", types.Canceled(err)
		}
		return "", types.NewAppError(types.ErrUpstream, "translation request failed", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if msg == "" {
			msg = "translation failed"
		}
		logger.Error("local translation returned error status", nil,
			logger.Int("status", resp.StatusCode()))
		return "", types.NewAppError(types.ErrUpstream, msg, nil)
	}
	return out.TranslatedText, nil
}
