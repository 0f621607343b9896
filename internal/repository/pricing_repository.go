package repository

import (
	"context"
	"database/sql"
	"errors"

	"pdf-converter/internal/domain"
)

// PricingRepository persists the conversion pricing table.
type PricingRepository struct {
	store *Store
}

// NewPricingRepository creates a new pricing repository.
func NewPricingRepository(store *Store) *PricingRepository {
	return &PricingRepository{store: store}
}

func (r *PricingRepository) GetByOperation(ctx context.Context, op domain.OperationType) (*domain.ConversionPricing, error) {
	row := r.store.queryRow(ctx, selectPricing+` WHERE operation_type = ?`, op)
	var p domain.ConversionPricing
	err := scanPricing(row.Scan, &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPricingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PricingRepository) ListActive(ctx context.Context) ([]*domain.ConversionPricing, error) {
	rows, err := r.store.query(ctx, selectPricing+` WHERE is_active = TRUE ORDER BY operation_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.ConversionPricing, 0)
	for rows.Next() {
		var p domain.ConversionPricing
		if err := scanPricing(rows.Scan, &p); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Upsert inserts or replaces a pricing row. Used by the seed step of migrate.
func (r *PricingRepository) Upsert(ctx context.Context, p *domain.ConversionPricing) error {
	// ON CONFLICT upsert syntax is shared by SQLite and PostgreSQL.
	_, err := r.store.exec(ctx,
		`INSERT INTO conversion_pricing (operation_type, pricing_type, base_price_cents,
		 price_per_page_cents, free_pages, max_price_per_file_cents, minimum_charge_cents,
		 is_free_operation, free_limit, description, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (operation_type) DO UPDATE SET
		   pricing_type = excluded.pricing_type,
		   base_price_cents = excluded.base_price_cents,
		   price_per_page_cents = excluded.price_per_page_cents,
		   free_pages = excluded.free_pages,
		   max_price_per_file_cents = excluded.max_price_per_file_cents,
		   minimum_charge_cents = excluded.minimum_charge_cents,
		   is_free_operation = excluded.is_free_operation,
		   free_limit = excluded.free_limit,
		   description = excluded.description,
		   is_active = excluded.is_active`,
		p.OperationType, p.PricingType, p.BasePrice, p.PricePerPage, p.FreePages,
		p.MaxPricePerFile, p.MinimumCharge, p.IsFreeOperation, p.FreeLimit,
		p.Description, p.IsActive)
	return err
}

const selectPricing = `SELECT operation_type, pricing_type, base_price_cents, price_per_page_cents,
	free_pages, max_price_per_file_cents, minimum_charge_cents, is_free_operation, free_limit,
	description, is_active FROM conversion_pricing`

func scanPricing(scan func(dest ...interface{}) error, p *domain.ConversionPricing) error {
	return scan(&p.OperationType, &p.PricingType, &p.BasePrice, &p.PricePerPage,
		&p.FreePages, &p.MaxPricePerFile, &p.MinimumCharge, &p.IsFreeOperation,
		&p.FreeLimit, &p.Description, &p.IsActive)
}
