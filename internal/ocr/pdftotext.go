package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout on the given PDF. The page count
// is derived from the form-feed separators pdftotext emits between
// pages. Empty output is an extraction failure.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (*Result, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return nil, eris.Errorf("ocr: no text extracted from %s", pdfPath)
	}

	pages := strings.Count(text, "\f")
	if !strings.HasSuffix(text, "\f") {
		pages++
	}

	return &Result{Text: text, PageCount: pages}, nil
}
