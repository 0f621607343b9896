package service

import (
	"context"
	"io"

	apperrors "pdf-converter/pkg/errors"

	"pdf-converter/internal/domain"
)

// ConversionEngine implements domain.Converter by dispatching on the source
// document type. xlsx/pptx/merge appear in the pricing table but are not
// implemented by the engine.
type ConversionEngine struct {
	docx   *DocxProcessor
	pdf    *PDFBuilder
	images *ImageProcessor
	logger domain.Logger
}

// NewConversionEngine creates the conversion engine with all processors.
func NewConversionEngine(logger domain.Logger) *ConversionEngine {
	return &ConversionEngine{
		docx:   NewDocxProcessor(logger),
		pdf:    NewPDFBuilder(logger),
		images: NewImageProcessor(logger),
		logger: logger,
	}
}

// Convert turns the source file into PDF bytes.
func (e *ConversionEngine) Convert(ctx context.Context, docType domain.DocumentType, src io.Reader) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	switch docType {
	case domain.TypeDocx:
		paragraphs, err := e.docx.Extract(src)
		if err != nil {
			return nil, 0, apperrors.NewConversionError("failed to read DOCX file", err)
		}
		pdf, pages, err := e.pdf.Build(paragraphs)
		if err != nil {
			return nil, 0, apperrors.NewConversionError("failed to build PDF", err)
		}
		return pdf, pages, nil
	case domain.TypeImage:
		pdf, pages, err := e.images.Convert(src)
		if err != nil {
			return nil, 0, apperrors.NewConversionError("failed to convert image", err)
		}
		return pdf, pages, nil
	default:
		return nil, 0, domain.ErrUnsupportedOperation
	}
}

// OperationFor maps a document type to its billing operation.
func OperationFor(docType domain.DocumentType) domain.OperationType {
	switch docType {
	case domain.TypeDocx:
		return domain.OpDocxToPDF
	case domain.TypeXlsx:
		return domain.OpXlsx
	case domain.TypePptx:
		return domain.OpPptx
	case domain.TypeImage:
		return domain.OpImage
	case domain.TypeMerge:
		return domain.OpMerge
	}
	return domain.OpDocxToPDF
}
