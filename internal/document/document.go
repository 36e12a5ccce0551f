// Package document models the user-supplied source file and provides
// classification and data-URL helpers used by the OCR pipeline.
package document

import (
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// PDFMimeType is the MIME type that classifies a file as a PDF.
const PDFMimeType = "application/pdf"

// File is an in-memory source file with its declared MIME type. It lives
// only for the duration of one OCR run and is never persisted.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Meta is the loggable description of a file, without its content.
type Meta struct {
	Name string `json:"name"`
	MIME string `json:"type"`
	Size int    `json:"size"`
}

// IsPDF reports whether the file's declared MIME type is exactly the PDF
// type. A nil file is not a PDF.
func IsPDF(f *File) bool {
	return f != nil && f.MIME == PDFMimeType
}

// MetaOf returns the file's metadata, or nil for a nil file.
func MetaOf(f *File) *Meta {
	if f == nil {
		return nil
	}
	return &Meta{Name: f.Name, MIME: f.MIME, Size: len(f.Data)}
}

// ToDataURL encodes the file bytes as a MIME-prefixed base64 data URL.
func ToDataURL(f *File) string {
	if f == nil {
		return ""
	}
	mime := f.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// EncodePNGDataURL wraps already-encoded PNG bytes in a data URL.
func EncodePNGDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

var dataURLPattern = regexp.MustCompile(`^data:([^;,]+);base64,(.*)$`)

// DecodeDataURL splits a data URL into its MIME type and decoded payload.
func DecodeDataURL(dataURL string) (mime string, data []byte, err error) {
	m := dataURLPattern.FindStringSubmatch(dataURL)
	if m == nil {
		return "", nil, fmt.Errorf("not a base64 data URL")
	}
	data, err = base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return m[1], data, nil
}

var imageDataURLPattern = regexp.MustCompile(`^data:image/[^;]+;base64,(.*)$`)

// ExtractBase64 returns the raw base64 payload of an image, accepting either
// an image data URL or an already-raw base64 string. Empty input yields "".
func ExtractBase64(image string) string {
	if image == "" {
		return ""
	}
	if m := imageDataURLPattern.FindStringSubmatch(image); m != nil {
		return m[1]
	}
	return image
}

// FormatBytes renders a byte count in a human-readable unit.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	return fmt.Sprintf("%.2f %s", float64(n)/math.Pow(1024, float64(i)), units[i])
}

// NormalizeBaseURL strips trailing slashes from a service base URL.
func NormalizeBaseURL(url string) string {
	return strings.TrimRight(url, "/")
}
