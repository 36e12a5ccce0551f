// Package worker implements the cloud proxy that fronts the Google Vision
// and OpenAI upstreams. It exposes exactly two POST routes plus a CORS
// preflight; everything else is 404.
package worker

import (
	"encoding/json"
	"net/http"
	"time"

	"doc-translator/internal/config"
	"doc-translator/internal/logger"
)

const (
	defaultVisionURL = "https://vision.googleapis.com/v1/images:annotate"
	defaultOpenAIURL = "https://api.openai.com/v1/responses"

	upstreamTimeout = 120 * time.Second
)

// Server holds the proxy's upstream configuration and HTTP client.
type Server struct {
	visionURL    string
	visionAPIKey string
	openAIURL    string
	openAIAPIKey string
	client       *http.Client
}

// NewServer creates a proxy server from the given configuration. Empty
// upstream URLs fall back to the public APIs.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		visionURL:    cfg.VisionURL,
		visionAPIKey: cfg.GoogleVisionAPIKey,
		openAIURL:    cfg.OpenAIURL,
		openAIAPIKey: cfg.OpenAIAPIKey,
		client:       &http.Client{Timeout: upstreamTimeout},
	}
	if s.visionURL == "" {
		s.visionURL = defaultVisionURL
	}
	if s.openAIURL == "" {
		s.openAIURL = defaultOpenAIURL
	}
	return s
}

// Handler returns the proxy's route table.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.route)
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		setCORSHeaders(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/vision/ocr":
		s.handleVisionOCR(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/openai/translate":
		s.handleTranslate(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

// ListenAndServe runs the proxy until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	logger.Info("worker proxy listening", logger.String("addr", addr))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: upstreamTimeout + 10*time.Second,
	}
	return srv.ListenAndServe()
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
