package pdffile

import (
	"context"
	"testing"

	"github.com/resumatch/resumatch/internal/core/domain"
)

func TestExtractRejectsNonPDFData(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), "resume.pdf", []byte("plain text, not a pdf"))
	if err == nil {
		t.Fatalf("expected error for non-PDF payload")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput kind", err)
	}
}

func TestExtractRejectsEmptyData(t *testing.T) {
	extractor := New()

	if _, err := extractor.Extract(context.Background(), "empty.pdf", nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
