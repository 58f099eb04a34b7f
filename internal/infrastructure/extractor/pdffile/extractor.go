// Package pdffile extracts plain text from uploaded PDF documents.
package pdffile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/resumatch/resumatch/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract pulls the text layer from a PDF. An unreadable document or one
// with no extractable text is a client-input failure.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "read pdf", fmt.Errorf("%s: %w", filename, err))
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf text", errors.New("no text could be extracted from document"))
	}
	return text, nil
}
