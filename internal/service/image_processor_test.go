package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"pdf-converter/internal/domain"
)

func testImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestImageConvert_PNG(t *testing.T) {
	data := testImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
	p := NewImageProcessor(testLogger())

	out, pages, err := p.Convert(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("expected PDF output")
	}
	if pages != 1 {
		t.Fatalf("expected one page, got %d", pages)
	}
}

func TestImageConvert_JPEG(t *testing.T) {
	data := testImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})
	p := NewImageProcessor(testLogger())

	out, pages, err := p.Convert(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 || pages != 1 {
		t.Fatalf("expected one-page PDF, got %d pages", pages)
	}
}

func TestImageConvert_BMPReencoded(t *testing.T) {
	data := testImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return bmp.Encode(buf, img)
	})
	p := NewImageProcessor(testLogger())

	out, pages, err := p.Convert(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) || pages != 1 {
		t.Fatalf("expected one-page PDF from bmp input, got %d pages", pages)
	}
}

func TestImageConvert_InvalidData(t *testing.T) {
	p := NewImageProcessor(testLogger())

	_, _, err := p.Convert(strings.NewReader("definitely not an image"))
	if !errors.Is(err, domain.ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}
