package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doc-translator/internal/config"
)

func newTestServer(visionURL, openAIURL string) *Server {
	return NewServer(&config.Config{
		GoogleVisionAPIKey: "vision-key",
		OpenAIAPIKey:       "openai-key",
		VisionURL:          visionURL,
		OpenAIURL:          openAIURL,
	})
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPreflight(t *testing.T) {
	rec := doRequest(t, newTestServer("", ""), http.MethodOptions, "/v1/vision/ocr", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	h := rec.Header()
	if h.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q", h.Get("Access-Control-Allow-Origin"))
	}
	if h.Get("Access-Control-Allow-Methods") != "POST, OPTIONS" {
		t.Errorf("allow-methods = %q", h.Get("Access-Control-Allow-Methods"))
	}
	if h.Get("Access-Control-Allow-Headers") != "Content-Type, Authorization" {
		t.Errorf("allow-headers = %q", h.Get("Access-Control-Allow-Headers"))
	}
}

func TestUnknownRoute(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/vision/ocr"},
		{http.MethodPost, "/v1/unknown"},
		{http.MethodGet, "/"},
		{http.MethodPost, "/health"},
	}
	for _, tt := range tests {
		rec := doRequest(t, newTestServer("", ""), tt.method, tt.path, "{}")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tt.method, tt.path, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s %s: non-JSON body %q", tt.method, tt.path, rec.Body.String())
		}
		if body["error"] != "Not Found" {
			t.Errorf("%s %s: error = %q", tt.method, tt.path, body["error"])
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s %s: missing CORS header", tt.method, tt.path)
		}
	}
}

func TestVisionOCR(t *testing.T) {
	var got visionAnnotateRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "vision-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte(`{"responses":[{"fullTextAnnotation":{"text":"found text"}}]}`))
	}))
	defer upstream.Close()

	s := newTestServer(upstream.URL, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/vision/ocr",
		`{"image":"data:image/png;base64,AAAA","languageHint":"tr"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["text"] != "found text" {
		t.Errorf("text = %q", out["text"])
	}

	if len(got.Requests) != 1 {
		t.Fatalf("requests = %d", len(got.Requests))
	}
	entry := got.Requests[0]
	if entry.Image.Content != "AAAA" {
		t.Errorf("image content = %q, want stripped base64", entry.Image.Content)
	}
	if len(entry.Features) != 1 || entry.Features[0].Type != "TEXT_DETECTION" {
		t.Errorf("features = %+v", entry.Features)
	}
	if entry.ImageContext == nil || len(entry.ImageContext.LanguageHints) != 1 || entry.ImageContext.LanguageHints[0] != "tr" {
		t.Errorf("imageContext = %+v", entry.ImageContext)
	}
}

func TestVisionOCRNoHint(t *testing.T) {
	var raw map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"responses":[{"fullTextAnnotation":{"text":"t"}}]}`))
	}))
	defer upstream.Close()

	s := newTestServer(upstream.URL, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/vision/ocr", `{"image":"AAAA"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	requests := raw["requests"].([]any)
	entry := requests[0].(map[string]any)
	if _, present := entry["imageContext"]; present {
		t.Error("imageContext must be omitted without a hint")
	}
}

func TestVisionOCRMissingImage(t *testing.T) {
	for _, body := range []string{`{}`, `{"image":""}`, `not json`} {
		rec := doRequest(t, newTestServer("http://unused.invalid", ""), http.MethodPost, "/v1/vision/ocr", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		var out map[string]string
		json.Unmarshal(rec.Body.Bytes(), &out)
		if out["error"] != "Image payload missing" {
			t.Errorf("body %q: error = %q", body, out["error"])
		}
	}
}

func TestVisionOCRUpstreamErrorPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("API key invalid"))
	}))
	defer upstream.Close()

	s := newTestServer(upstream.URL, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/vision/ocr", `{"image":"AAAA"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want upstream 403", rec.Code)
	}
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["error"] != "API key invalid" {
		t.Errorf("error = %q, want upstream body", out["error"])
	}
}

func TestVisionOCREmptyAnnotation(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[]}`))
	}))
	defer upstream.Close()

	s := newTestServer(upstream.URL, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/vision/ocr", `{"image":"AAAA"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["text"] != "" {
		t.Errorf("text = %q, want empty", out["text"])
	}
}

func TestTranslate(t *testing.T) {
	var got responsesRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer openai-key" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte(`{"output":[{"content":[{"text":"merhaba"}]}]}`))
	}))
	defer upstream.Close()

	s := newTestServer("", upstream.URL)
	rec := doRequest(t, s, http.MethodPost, "/v1/openai/translate",
		`{"text":"hello","source":"en","target":"tr","model":"gpt-4o"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["translation"] != "merhaba" {
		t.Errorf("translation = %q", out["translation"])
	}

	if got.Model != "gpt-4o" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Input) != 2 || got.Input[0].Role != "system" || got.Input[1].Role != "user" {
		t.Fatalf("input = %+v", got.Input)
	}
	if !strings.Contains(got.Input[1].Content, "Source language: en") ||
		!strings.Contains(got.Input[1].Content, "Target language: tr") ||
		!strings.Contains(got.Input[1].Content, "Text:\nhello") {
		t.Errorf("user prompt = %q", got.Input[1].Content)
	}
}

func TestTranslateDefaults(t *testing.T) {
	var got responsesRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"output_text":"hi"}`))
	}))
	defer upstream.Close()

	s := newTestServer("", upstream.URL)
	rec := doRequest(t, s, http.MethodPost, "/v1/openai/translate", `{"text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if got.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default", got.Model)
	}
	if !strings.Contains(got.Input[1].Content, "Source language: auto") ||
		!strings.Contains(got.Input[1].Content, "Target language: en") {
		t.Errorf("defaults missing in prompt: %q", got.Input[1].Content)
	}

	// output_text fallback shape
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["translation"] != "hi" {
		t.Errorf("translation = %q", out["translation"])
	}
}

func TestTranslateBlankText(t *testing.T) {
	for _, body := range []string{`{}`, `{"text":"   "}`, `bad json`} {
		rec := doRequest(t, newTestServer("", "http://unused.invalid"), http.MethodPost, "/v1/openai/translate", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		var out map[string]string
		json.Unmarshal(rec.Body.Bytes(), &out)
		if out["error"] != "Text is required" {
			t.Errorf("body %q: error = %q", body, out["error"])
		}
	}
}

func TestTranslateUpstreamErrorPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limit"))
	}))
	defer upstream.Close()

	s := newTestServer("", upstream.URL)
	rec := doRequest(t, s, http.MethodPost, "/v1/openai/translate", `{"text":"hi"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want upstream 429", rec.Code)
	}
}
