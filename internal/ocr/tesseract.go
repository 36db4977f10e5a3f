package ocr

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/otiai10/gosseract/v2"

	"github.com/lemon-sec/scavenger/internal/model"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Tesseract is the default text extractor, binding to a Tesseract OCR
// engine through gosseract. Because gosseract's API reads images from a
// file path rather than memory, Extract materializes its input to a
// uniquely-named temporary file for the duration of each call.
type Tesseract struct {
	language string
	logger   *slog.Logger
}

// Option configures a Tesseract extractor.
type Option func(*Tesseract)

// WithLanguage overrides the Tesseract language code (e.g. "eng", "deu").
func WithLanguage(lang string) Option {
	return func(t *Tesseract) {
		if lang != "" {
			t.language = lang
		}
	}
}

// WithLogger attaches a logger used to report recoverable OCR failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tesseract) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTesseract creates a Tesseract extractor.
func NewTesseract(opts ...Option) *Tesseract {
	t := &Tesseract{
		language: DefaultLanguage,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Extract implements Extractor. Any failure (temp file creation, Tesseract
// client errors) is absorbed and reported as an empty string; this method
// never returns an error to its caller, per the TextExtractor contract.
func (t *Tesseract) Extract(img model.Raster) string {
	if img.IsZero() {
		return ""
	}

	tmpPath, cleanup, err := writeTempImage(img)
	if err != nil {
		t.logger.Warn("ocr: failed to stage temp image", "error", err)
		return ""
	}
	defer cleanup()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		t.logger.Warn("ocr: failed to set language", "language", t.language, "error", err)
		return ""
	}
	if err := client.SetImage(tmpPath); err != nil {
		t.logger.Warn("ocr: failed to set image", "error", err)
		return ""
	}

	text, err := client.Text()
	if err != nil {
		t.logger.Warn("ocr: text extraction failed", "error", err)
		return ""
	}
	return text
}

// writeTempImage encodes img as PNG into a uniquely-named temp file and
// returns its path plus a cleanup func that removes it.
func writeTempImage(img model.Raster) (path string, cleanup func(), err error) {
	data, err := img.EncodePNG()
	if err != nil {
		return "", nil, err
	}

	tmpPath := fmt.Sprintf("%s/scavenger-ocr-%s.png", os.TempDir(), uuid.NewString())
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", nil, err
	}

	return tmpPath, func() { os.Remove(tmpPath) }, nil
}

var _ Extractor = (*Tesseract)(nil)
