package worker

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"doc-translator/internal/document"
	"doc-translator/internal/logger"
)

type visionOCRRequest struct {
	Image        string `json:"image"`
	LanguageHint string `json:"languageHint,omitempty"`
}

type visionAnnotateRequest struct {
	Requests []visionAnnotateEntry `json:"requests"`
}

type visionAnnotateEntry struct {
	Image        visionImage         `json:"image"`
	Features     []visionFeature     `json:"features"`
	ImageContext *visionImageContext `json:"imageContext,omitempty"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints"`
}

type visionAnnotateResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
	} `json:"responses"`
}

// handleVisionOCR forwards one image to the Vision text-detection API and
// returns the full text annotation. Upstream failures pass through with
// their status and body.
func (s *Server) handleVisionOCR(w http.ResponseWriter, r *http.Request) {
	var req visionOCRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Image payload missing")
		return
	}

	base64Content := document.ExtractBase64(req.Image)
	if base64Content == "" {
		writeError(w, http.StatusBadRequest, "Image payload missing")
		return
	}

	entry := visionAnnotateEntry{
		Image:    visionImage{Content: base64Content},
		Features: []visionFeature{{Type: "TEXT_DETECTION"}},
	}
	if req.LanguageHint != "" {
		entry.ImageContext = &visionImageContext{LanguageHints: []string{req.LanguageHint}}
	}

	payload, err := json.Marshal(visionAnnotateRequest{Requests: []visionAnnotateEntry{entry}})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		s.visionURL+"?key="+s.visionAPIKey, bytes.NewReader(payload))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(upstreamReq)
	if err != nil {
		logger.Error("vision upstream unreachable", err)
		writeError(w, http.StatusBadGateway, "Vision API error")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Vision API error")
		return
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(bytes.TrimSpace(body))
		if msg == "" {
			msg = "Vision API error"
		}
		logger.Warn("vision upstream returned error",
			logger.Int("status", resp.StatusCode))
		writeError(w, resp.StatusCode, msg)
		return
	}

	var annotated visionAnnotateResponse
	if err := json.Unmarshal(body, &annotated); err != nil {
		writeError(w, http.StatusBadGateway, "Vision API error")
		return
	}

	text := ""
	if len(annotated.Responses) > 0 {
		text = annotated.Responses[0].FullTextAnnotation.Text
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
