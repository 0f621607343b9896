package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"pdf-converter/internal/domain"
)

// Paragraph is one extracted unit of DOCX content.
type Paragraph struct {
	Text      string
	IsHeading bool
}

// DocxProcessor extracts paragraph text and heading structure from DOCX files.
// A DOCX file is a zip archive; the document body lives in word/document.xml.
type DocxProcessor struct {
	logger domain.Logger
}

// NewDocxProcessor creates a new DOCX processor.
func NewDocxProcessor(logger domain.Logger) *DocxProcessor {
	return &DocxProcessor{logger: logger}
}

// wordprocessingml structures, matched by local name so the w: namespace
// prefix is irrelevant.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Props docxParaProps `xml:"pPr"`
	Runs  []docxRun     `xml:"r"`
}

type docxParaProps struct {
	Style docxStyle `xml:"pStyle"`
}

type docxStyle struct {
	Val string `xml:"val,attr"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

// Extract reads the whole source and returns its non-empty paragraphs in
// order.
func (p *DocxProcessor) Extract(src io.Reader) ([]Paragraph, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.ErrInvalidFile
	}

	var body []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open document.xml: %w", err)
			}
			body, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if body == nil {
		return nil, domain.ErrInvalidFile
	}

	var doc docxDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse document.xml: %w", err)
	}

	paragraphs := make([]Paragraph, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, run := range para.Runs {
			for _, t := range run.Texts {
				sb.WriteString(t)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, Paragraph{
			Text:      text,
			IsHeading: isHeading(para.Props.Style.Val, text),
		})
	}
	return paragraphs, nil
}

// cyrillicHeadingWords are section markers common in Russian documents.
var cyrillicHeadingWords = []string{"глава", "раздел", "часть", "введение", "заключение", "содержание"}

// isHeading decides whether a paragraph should be rendered as a heading.
func isHeading(styleName, text string) bool {
	if strings.HasPrefix(styleName, "Heading") {
		return true
	}
	if len([]rune(text)) < 100 && (isUpperText(text) || isTitleText(text)) {
		return true
	}
	if len(strings.Fields(text)) <= 8 && len([]rune(text)) < 80 {
		lower := strings.ToLower(text)
		for _, w := range cyrillicHeadingWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

// isUpperText reports whether the text contains letters and none of them are
// lowercase.
func isUpperText(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleText reports whether every word starts with an uppercase letter.
func isTitleText(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// cyrillicToLatin maps Cyrillic letters to Latin transliterations for the
// fallback when no Unicode-capable font is available.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ё': "YO",
	'Ж': "ZH", 'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M",
	'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U",
	'Ф': "F", 'Х': "H", 'Ц': "TS", 'Ч': "CH", 'Ш': "SH", 'Щ': "SCH",
	'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "YU", 'Я': "YA",
}

// TransliterateCyrillic replaces Cyrillic characters with Latin equivalents.
func TransliterateCyrillic(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if latin, ok := cyrillicToLatin[r]; ok {
			sb.WriteString(latin)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ContainsCyrillic reports whether the text has any Cyrillic letters.
func ContainsCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
