// Package ocr extracts text content from PDF files.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finsight-cli/internal/config"
)

// Result is the extracted text plus a best-effort page count.
type Result struct {
	Text      string
	PageCount int
}

// Extractor extracts text content from PDF files. An empty-text result
// is returned as an error by implementations: extraction failure is
// fatal for the document.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (*Result, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
