package domain

import "fmt"

// OperationType identifies a billable conversion operation.
type OperationType string

const (
	OpDocxToPDF OperationType = "docx_to_pdf"
	OpPDFToDocx OperationType = "pdf_to_docx"
	OpXlsx      OperationType = "xlsx"
	OpPptx      OperationType = "pptx"
	OpImage     OperationType = "image"
	OpMerge     OperationType = "merge"
	OpCompress  OperationType = "compress"
	OpSplit     OperationType = "split"
	OpRotate    OperationType = "rotate"
	OpWatermark OperationType = "watermark"
	OpEncrypt   OperationType = "encrypt"
	OpExtract   OperationType = "extract"
	OpOCR       OperationType = "ocr"
)

// PricingType selects how the cost of an operation is computed.
type PricingType string

const (
	PricingFixed         PricingType = "fixed"
	PricingPerPage       PricingType = "per_page"
	PricingFilePlusPages PricingType = "file_plus_pages"
)

// ConversionPricing defines the price of one operation type.
// All amounts are euro cents.
type ConversionPricing struct {
	OperationType   OperationType `json:"operation_type" yaml:"operation_type"`
	PricingType     PricingType   `json:"pricing_type" yaml:"pricing_type"`
	BasePrice       int64         `json:"base_price_cents" yaml:"base_price_cents"`
	PricePerPage    int64         `json:"price_per_page_cents" yaml:"price_per_page_cents"`
	FreePages       int           `json:"free_pages" yaml:"free_pages"`
	MaxPricePerFile int64         `json:"max_price_per_file_cents" yaml:"max_price_per_file_cents"`
	MinimumCharge   int64         `json:"minimum_charge_cents" yaml:"minimum_charge_cents"`
	IsFreeOperation bool          `json:"is_free_operation" yaml:"is_free_operation"`
	FreeLimit       int           `json:"free_limit" yaml:"free_limit"`
	Description     string        `json:"description" yaml:"description"`
	IsActive        bool          `json:"is_active" yaml:"is_active"`
}

// CalculateCost returns the cost in cents for converting pageCount pages.
// The minimum charge always applies; a non-zero MaxPricePerFile caps the total.
func (p *ConversionPricing) CalculateCost(pageCount int) int64 {
	if pageCount < 1 {
		pageCount = 1
	}

	var cost int64
	switch p.PricingType {
	case PricingFixed:
		cost = p.BasePrice
	case PricingPerPage:
		cost = p.PricePerPage * int64(pageCount)
	case PricingFilePlusPages:
		additional := pageCount - p.FreePages
		if additional < 0 {
			additional = 0
		}
		cost = p.BasePrice + int64(additional)*p.PricePerPage
	default:
		cost = p.BasePrice
	}

	if cost < p.MinimumCharge {
		cost = p.MinimumCharge
	}
	if p.MaxPricePerFile > 0 && cost > p.MaxPricePerFile {
		cost = p.MaxPricePerFile
	}
	return cost
}

// FormatCents renders a cent amount as a euro string, e.g. "€0.50".
func FormatCents(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}
