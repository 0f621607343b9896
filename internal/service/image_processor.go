package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"pdf-converter/internal/domain"
)

// A4 content box in points with 72pt margins.
const (
	a4ContentWidth  = 595.28 - 2*72
	a4ContentHeight = 841.89 - 2*72
)

// ImageProcessor places one uploaded image on a single A4 PDF page, scaled to
// fit while preserving aspect ratio. JPEG and PNG pass straight through;
// bmp/tiff/webp/gif are re-encoded as PNG first.
type ImageProcessor struct {
	logger domain.Logger
}

// NewImageProcessor creates a new image processor.
func NewImageProcessor(logger domain.Logger) *ImageProcessor {
	return &ImageProcessor{logger: logger}
}

// Convert renders the image as a one-page PDF.
func (p *ImageProcessor) Convert(src io.Reader) ([]byte, int, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, 0, fmt.Errorf("read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, domain.ErrInvalidFile
	}

	imageType := ""
	switch format {
	case "jpeg":
		imageType = "JPG"
	case "png":
		imageType = "PNG"
	default:
		// gofpdf only embeds JPG/PNG/GIF; normalize everything else to PNG.
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, 0, fmt.Errorf("re-encode image: %w", err)
		}
		data = buf.Bytes()
		imageType = "PNG"
	}

	bounds := img.Bounds()
	w, h := fitToPage(float64(bounds.Dx()), float64(bounds.Dy()))

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(72, 72, 72)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("upload", opts, bytes.NewReader(data))
	x := 72 + (a4ContentWidth-w)/2
	y := 72 + (a4ContentHeight-h)/2
	pdf.ImageOptions("upload", x, y, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), pdf.PageCount(), nil
}

// fitToPage scales pixel dimensions down to the A4 content box.
func fitToPage(w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return a4ContentWidth, a4ContentHeight
	}
	scale := a4ContentWidth / w
	if s := a4ContentHeight / h; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return w * scale, h * scale
}
