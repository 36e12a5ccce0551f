// Package types defines core data types and enums for the document
// OCR/translation pipeline.
package types

import (
	"context"
	"errors"
)

// Settings holds the user-configurable endpoints, keys and toggles that
// drive provider selection. The record is replaced as a whole on update and
// persisted together with the rest of the application state.
type Settings struct {
	APIURL            string `json:"apiUrl"`            // LibreTranslate-compatible endpoint
	APIKey            string `json:"apiKey"`            // optional LibreTranslate API key
	MaxCharacters     int    `json:"maxCharacters"`     // translation input guard
	WorkerURL         string `json:"workerUrl"`         // cloud proxy base URL
	UseCloudOCR       bool   `json:"useCloudOcr"`       // route OCR through the proxy
	UseCloudTranslate bool   `json:"useCloudTranslate"` // route translation through the proxy
	OpenAIModel       string `json:"openAiModel"`       // model name for OpenAI-backed translation
	OpenAIAPIKey      string `json:"openAiApiKey"`      // optional key for direct model translation
}

// DefaultSettings returns the documented defaults used when no persisted
// settings exist.
func DefaultSettings() Settings {
	return Settings{
		APIURL:            "https://libretranslate.com/translate",
		APIKey:            "",
		MaxCharacters:     8000,
		WorkerURL:         "",
		UseCloudOCR:       false,
		UseCloudTranslate: false,
		OpenAIModel:       "gpt-4o-mini",
		OpenAIAPIKey:      "",
	}
}

// HistoryType distinguishes the two recorded operation kinds.
type HistoryType string

const (
	HistoryOCR       HistoryType = "OCR"
	HistoryTranslate HistoryType = "Translate"
)

// HistoryEntry is an immutable record of one completed OCR or translation
// run. Input and output are truncated to 500 characters on creation.
type HistoryEntry struct {
	Type      HistoryType `json:"type"`
	CreatedAt string      `json:"createdAt"` // ISO-8601
	Input     string      `json:"input"`
	Output    string      `json:"output"`
}

// AppState is the full persisted snapshot. The source file is never part of
// it; only text derived from it survives a run.
type AppState struct {
	Mode            string         `json:"mode"`
	OCRText         string         `json:"ocrText"`
	TranslationText string         `json:"translationText"`
	OCRLanguage     string         `json:"ocrLanguage"`
	SourceLanguage  string         `json:"sourceLanguage"`
	TargetLanguage  string         `json:"targetLanguage"`
	History         []HistoryEntry `json:"history"`
	Settings        Settings       `json:"settings"`
}

// DefaultAppState returns the initial snapshot used when nothing has been
// persisted yet.
func DefaultAppState() AppState {
	return AppState{
		Mode:           "dark",
		OCRLanguage:    "eng",
		SourceLanguage: "auto",
		TargetLanguage: "tr",
		History:        []HistoryEntry{},
		Settings:       DefaultSettings(),
	}
}

// ProgressEvent carries overall fractional completion in [0,1].
type ProgressEvent struct {
	Fraction float64 `json:"fraction"`
}

// ProgressFunc receives fractional progress events.
type ProgressFunc func(ProgressEvent)

// PageProgressFunc receives the discrete page counter for multi-page runs.
type PageProgressFunc func(currentPage, totalPages int)

// ErrorCode classifies pipeline failures.
type ErrorCode string

const (
	// ErrValidation marks input or configuration problems detected before
	// any I/O happens.
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	// ErrUpstream marks non-success responses from OCR or translation
	// providers.
	ErrUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrRender marks a PDF page that could not be rasterized.
	ErrRender ErrorCode = "RENDER_ERROR"
	// ErrOCR marks a local recognition failure.
	ErrOCR ErrorCode = "OCR_ERROR"
	// ErrConfig marks missing or invalid service configuration.
	ErrConfig ErrorCode = "CONFIG_ERROR"
	// ErrInternal marks unexpected internal failures.
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCanceled marks a run that was aborted by the caller. It is not a
	// true failure and must be suppressed from user-facing reporting.
	ErrCanceled ErrorCode = "CANCELED"
)

// AppError is the application error carrying a classification code.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the classification code of err, or ErrInternal when err is
// not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsCanceled reports whether err represents a caller-initiated abort rather
// than a real failure. Both the dedicated ErrCanceled code and a bare
// context cancellation count.
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCanceled
}

// Canceled wraps a context cancellation into the dedicated error kind so
// callers can swallow it without string matching.
func Canceled(cause error) *AppError {
	return &AppError{Code: ErrCanceled, Message: "operation canceled", Cause: cause}
}

// Truncate clips s to at most n characters, used for history records.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
