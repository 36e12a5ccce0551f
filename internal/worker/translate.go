package worker

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"doc-translator/internal/logger"
)

const translateSystemPrompt = "You are a professional translator. Translate the input text exactly and only output the translated text."

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
	Model  string `json:"model"`
}

type responsesRequest struct {
	Model string             `json:"model"`
	Input []responsesMessage `json:"input"`
}

type responsesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responsesResponse covers the two shapes the Responses API returns the
// generated text in.
type responsesResponse struct {
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	OutputText string `json:"output_text"`
}

// handleTranslate forwards one translation prompt to the OpenAI Responses
// API. Upstream failures pass through with their status and body.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if req.Source == "" {
		req.Source = "auto"
	}
	if req.Target == "" {
		req.Target = "en"
	}
	if req.Model == "" {
		req.Model = "gpt-4o-mini"
	}

	userPrompt := "Source language: " + req.Source +
		"\nTarget language: " + req.Target +
		"\n\nText:\n" + req.Text

	payload, err := json.Marshal(responsesRequest{
		Model: req.Model,
		Input: []responsesMessage{
			{Role: "system", Content: translateSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		s.openAIURL, bytes.NewReader(payload))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("Authorization", "Bearer "+s.openAIAPIKey)

	resp, err := s.client.Do(upstreamReq)
	if err != nil {
		logger.Error("openai upstream unreachable", err)
		writeError(w, http.StatusBadGateway, "OpenAI API error")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, "OpenAI API error")
		return
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(bytes.TrimSpace(body))
		if msg == "" {
			msg = "OpenAI API error"
		}
		logger.Warn("openai upstream returned error",
			logger.Int("status", resp.StatusCode))
		writeError(w, resp.StatusCode, msg)
		return
	}

	var out responsesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		writeError(w, http.StatusBadGateway, "OpenAI API error")
		return
	}

	translation := ""
	if len(out.Output) > 0 && len(out.Output[0].Content) > 0 {
		translation = out.Output[0].Content[0].Text
	}
	if translation == "" {
		translation = out.OutputText
	}
	writeJSON(w, http.StatusOK, map[string]string{"translation": translation})
}
