package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"pdf-converter/internal/domain"
)

func TestConversionEngine_Docx(t *testing.T) {
	engine := NewConversionEngine(testLogger())
	data := buildDocx(t, "#Heading", "Body paragraph.")

	pdf, pages, err := engine.Convert(context.Background(), domain.TypeDocx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) || pages < 1 {
		t.Fatalf("expected PDF output with pages, got %d pages", pages)
	}
}

func TestConversionEngine_UnsupportedType(t *testing.T) {
	engine := NewConversionEngine(testLogger())

	_, _, err := engine.Convert(context.Background(), domain.TypeXlsx, strings.NewReader("x"))
	if !errors.Is(err, domain.ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestConversionEngine_CancelledContext(t *testing.T) {
	engine := NewConversionEngine(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := engine.Convert(ctx, domain.TypeDocx, strings.NewReader("x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOperationFor(t *testing.T) {
	cases := map[domain.DocumentType]domain.OperationType{
		domain.TypeDocx:  domain.OpDocxToPDF,
		domain.TypeImage: domain.OpImage,
		domain.TypeXlsx:  domain.OpXlsx,
		domain.TypePptx:  domain.OpPptx,
		domain.TypeMerge: domain.OpMerge,
	}
	for docType, want := range cases {
		if got := OperationFor(docType); got != want {
			t.Errorf("OperationFor(%s) = %s, want %s", docType, got, want)
		}
	}
}
