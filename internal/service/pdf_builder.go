package service

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"

	"pdf-converter/internal/domain"
)

// Candidate locations of Unicode-capable fonts inside the container image.
var unicodeFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

var unicodeBoldFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
}

// PDFBuilder renders extracted paragraphs into an A4 PDF. When a DejaVu font
// is found on disk the output keeps Cyrillic text as-is; otherwise Cyrillic is
// transliterated to fit the built-in Latin-1 fonts.
type PDFBuilder struct {
	logger   domain.Logger
	fontPath string
	boldPath string
}

// NewPDFBuilder creates a new PDF builder, probing the known font locations.
func NewPDFBuilder(logger domain.Logger) *PDFBuilder {
	b := &PDFBuilder{logger: logger}
	b.fontPath = firstExisting(unicodeFontPaths)
	b.boldPath = firstExisting(unicodeBoldFontPaths)
	if b.fontPath == "" {
		logger.Warn("No Unicode font found, Cyrillic text will be transliterated")
	} else {
		logger.Debug("Registered Unicode font", "path", b.fontPath)
	}
	return b
}

// Build renders the paragraphs and returns the PDF bytes and page count.
func (b *PDFBuilder) Build(paragraphs []Paragraph) ([]byte, int, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 72)

	family, boldFamily := "Helvetica", "Helvetica"
	unicodeOK := false
	if b.fontPath != "" {
		// gofpdf joins font file names onto its font directory, which is "."
		// here. Rooting the directory at "/" keeps the absolute font paths
		// intact.
		pdf.SetFontLocation("/")
		pdf.AddUTF8Font("DejaVuSans", "", b.fontPath)
		family = "DejaVuSans"
		boldFamily = "DejaVuSans"
		if b.boldPath != "" {
			pdf.AddUTF8Font("DejaVuSans", "B", b.boldPath)
		} else {
			// Reuse the regular face for bold when no bold file exists.
			pdf.AddUTF8Font("DejaVuSans", "B", b.fontPath)
		}
		unicodeOK = true
	}

	pdf.AddPage()

	pdf.SetFont(boldFamily, "B", 20)
	pdf.MultiCell(0, 24, b.renderable("Converted Document", unicodeOK), "", "C", false)
	pdf.Ln(20)

	for _, para := range paragraphs {
		text := b.renderable(para.Text, unicodeOK)
		if para.IsHeading {
			pdf.Ln(8)
			pdf.SetFont(boldFamily, "B", 16)
			pdf.MultiCell(0, 20, text, "", "L", false)
			pdf.Ln(8)
		} else {
			pdf.SetFont(family, "", 12)
			pdf.MultiCell(0, 16, text, "", "L", false)
			pdf.Ln(6)
		}
	}

	if len(paragraphs) == 0 {
		pdf.SetFont(family, "", 12)
		pdf.MultiCell(0, 16, "Document processed but no readable content found.", "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), pdf.PageCount(), nil
}

// renderable prepares text for the active font, transliterating Cyrillic when
// only the built-in Latin-1 fonts are available.
func (b *PDFBuilder) renderable(text string, unicodeOK bool) string {
	if unicodeOK || !ContainsCyrillic(text) {
		return text
	}
	return "[RU] " + TransliterateCyrillic(text)
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
