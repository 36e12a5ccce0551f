package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// translateSystemPrompt matches the prompt the worker proxy uses, so both
// OpenAI paths produce comparable output.
const translateSystemPrompt = "You are a professional translator. Translate the input text exactly and only output the translated text."

// OpenAIProvider translates through an OpenAI-compatible chat model
// directly, without the worker proxy. Selected when the caller holds its
// own API key.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
}

// NewOpenAIProvider creates a direct model-backed provider. baseURL may be
// empty for the default OpenAI endpoint.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{apiKey: apiKey, baseURL: baseURL, model: model}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai-direct" }

// Translate implements Provider.
func (p *OpenAIProvider) Translate(ctx context.Context, req Request) (string, error) {
	if p.apiKey == "" {
		return "", types.NewAppError(types.ErrConfig, "OpenAI API key is not configured", nil)
	}

	cfg := &openai.ChatModelConfig{
		Model:  p.model,
		APIKey: p.apiKey,
	}
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return "", types.NewAppError(types.ErrConfig, "failed to create chat model", err)
	}

	userPrompt := fmt.Sprintf("Source language: %s\nTarget language: %s\n\nText:\n%s",
		req.Source, req.Target, req.Text)

	resp, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(translateSystemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return "", types.Canceled(err)
		}
		return "", types.NewAppError(types.ErrUpstream, "model translation failed", err)
	}
	if resp == nil {
		return "", types.NewAppError(types.ErrUpstream, "model returned no response", nil)
	}

	logger.Debug("direct model translation done",
		logger.String("model", p.model),
		logger.Int("chars", len(resp.Content)))
	return strings.TrimSpace(resp.Content), nil
}
