package service

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pdf-converter/internal/domain"
)

// defaultPricing is the pricing table installed by migrate when no override
// file is given. Amounts are euro cents.
var defaultPricing = []*domain.ConversionPricing{
	{
		OperationType: domain.OpDocxToPDF,
		PricingType:   domain.PricingFilePlusPages,
		BasePrice:     50,
		PricePerPage:  10,
		MinimumCharge: 10,
		FreeLimit:     domain.DefaultFreeConversions,
		Description:   "Convert DOCX files to PDF",
		IsActive:      true,
	},
	{
		OperationType: domain.OpImage,
		PricingType:   domain.PricingFixed,
		BasePrice:     30,
		MinimumCharge: 10,
		Description:   "Convert images to PDF",
		IsActive:      true,
	},
	{
		OperationType: domain.OpXlsx,
		PricingType:   domain.PricingFilePlusPages,
		BasePrice:     60,
		PricePerPage:  10,
		MinimumCharge: 10,
		Description:   "Convert Excel files to PDF",
		IsActive:      true,
	},
	{
		OperationType: domain.OpPptx,
		PricingType:   domain.PricingFilePlusPages,
		BasePrice:     60,
		PricePerPage:  10,
		MinimumCharge: 10,
		Description:   "Convert PowerPoint files to PDF",
		IsActive:      true,
	},
	{
		OperationType: domain.OpMerge,
		PricingType:   domain.PricingPerPage,
		PricePerPage:  5,
		MinimumCharge: 10,
		Description:   "Merge PDFs",
		IsActive:      true,
	},
	{
		OperationType: domain.OpCompress,
		PricingType:   domain.PricingFixed,
		BasePrice:     20,
		MinimumCharge: 10,
		Description:   "Compress PDF",
		IsActive:      true,
	},
}

// pricingFile is the YAML shape of a pricing override file.
type pricingFile struct {
	Pricing []*domain.ConversionPricing `yaml:"pricing"`
}

// SeedPricing installs the pricing table: the built-in defaults, optionally
// replaced by entries from a YAML file. Existing rows are updated in place so
// re-running migrate picks up price changes.
func SeedPricing(ctx context.Context, repo domain.PricingRepository, overridePath string, logger domain.Logger) error {
	rows := defaultPricing
	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return fmt.Errorf("read pricing file: %w", err)
		}
		var f pricingFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parse pricing file: %w", err)
		}
		if len(f.Pricing) > 0 {
			rows = f.Pricing
			logger.Info("Loaded pricing overrides", "path", overridePath, "entries", len(rows))
		}
	}

	for _, p := range rows {
		if p.OperationType == "" {
			return &domain.ValidationError{Field: "operation_type", Message: "missing in pricing entry"}
		}
		if err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed pricing %s: %w", p.OperationType, err)
		}
	}
	return nil
}
