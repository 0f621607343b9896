package service

import (
	"bytes"
	"strings"
	"testing"
)

func TestPDFBuilder_Build(t *testing.T) {
	b := NewPDFBuilder(testLogger())

	paragraphs := []Paragraph{
		{Text: "Chapter One", IsHeading: true},
		{Text: "Some body text for the first chapter."},
		{Text: "More body text."},
	}
	data, pages, err := b.Build(paragraphs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected output to start with the PDF magic bytes")
	}
	if pages < 1 {
		t.Fatalf("expected at least one page, got %d", pages)
	}
}

func TestPDFBuilder_UnicodeFont(t *testing.T) {
	b := NewPDFBuilder(testLogger())
	if b.fontPath == "" {
		t.Skip("no DejaVu font installed on this host")
	}

	// The discovered font paths are absolute; Build must load them as-is
	// rather than relative to the working directory.
	data, pages, err := b.Build([]Paragraph{
		{Text: "Глава первая", IsHeading: true},
		{Text: "Текст с кириллицей."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) || pages < 1 {
		t.Fatalf("expected a rendered PDF, got %d pages", pages)
	}
}

func TestPDFBuilder_EmptyDocument(t *testing.T) {
	b := NewPDFBuilder(testLogger())

	data, pages, err := b.Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 || pages != 1 {
		t.Fatalf("expected a single placeholder page, got %d pages", pages)
	}
}

func TestPDFBuilder_LongDocumentPaginates(t *testing.T) {
	b := NewPDFBuilder(testLogger())

	var paragraphs []Paragraph
	for i := 0; i < 120; i++ {
		paragraphs = append(paragraphs, Paragraph{Text: strings.Repeat("paginated body text ", 5)})
	}
	_, pages, err := b.Build(paragraphs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages < 2 {
		t.Fatalf("expected the document to span multiple pages, got %d", pages)
	}
}

func TestRenderableFallback(t *testing.T) {
	b := &PDFBuilder{logger: testLogger()}

	if got := b.renderable("Привет", false); got != "[RU] Privet" {
		t.Fatalf("expected transliterated fallback, got %q", got)
	}
	if got := b.renderable("Привет", true); got != "Привет" {
		t.Fatalf("expected unchanged text with a Unicode font, got %q", got)
	}
	if got := b.renderable("plain", false); got != "plain" {
		t.Fatalf("expected ascii text unchanged, got %q", got)
	}
}

func TestFitToPage(t *testing.T) {
	// Small images keep their pixel size.
	if w, h := fitToPage(100, 50); w != 100 || h != 50 {
		t.Fatalf("expected small image unchanged, got %vx%v", w, h)
	}
	// Oversized images scale down preserving aspect ratio.
	w, h := fitToPage(4000, 2000)
	if w > a4ContentWidth+0.01 || h > a4ContentHeight+0.01 {
		t.Fatalf("expected image to fit content box, got %vx%v", w, h)
	}
	if ratio := w / h; ratio < 1.99 || ratio > 2.01 {
		t.Fatalf("expected 2:1 aspect ratio preserved, got %v", ratio)
	}
	// Degenerate dimensions fall back to the full box.
	if w, h := fitToPage(0, 0); w != a4ContentWidth || h != a4ContentHeight {
		t.Fatalf("unexpected fallback size %vx%v", w, h)
	}
}
