package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pdf-converter/internal/domain"
)

// TransactionRepository persists the spending ledger.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	var docID sql.NullString
	if tx.DocumentID != nil {
		docID = sql.NullString{String: *tx.DocumentID, Valid: true}
	}
	var opType sql.NullString
	if tx.OperationType != "" {
		opType = sql.NullString{String: string(tx.OperationType), Valid: true}
	}
	_, err := r.store.exec(ctx,
		`INSERT INTO transactions (id, user_id, document_id, transaction_type, operation_type,
		 amount_cents, payment_method, balance_before_cents, balance_after_cents,
		 free_conversions_before, free_conversions_after, description, ip_address,
		 is_successful, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, docID, tx.TransactionType, opType,
		tx.Amount, tx.PaymentMethod, tx.BalanceBefore, tx.BalanceAfter,
		tx.FreeConversionsBefore, tx.FreeConversionsAfter, tx.Description, tx.IPAddress,
		tx.IsSuccessful, tx.ErrorMessage, tx.CreatedAt)
	return err
}

// GetByUserID returns the user's ledger, newest first. limit <= 0 means no
// limit.
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	q := `SELECT id, user_id, document_id, transaction_type, operation_type, amount_cents,
		payment_method, balance_before_cents, balance_after_cents, free_conversions_before,
		free_conversions_after, description, ip_address, is_successful, error_message, created_at
		FROM transactions WHERE user_id = ? ORDER BY created_at DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.store.query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var docID, opType sql.NullString
		if err := rows.Scan(&tx.ID, &tx.UserID, &docID, &tx.TransactionType, &opType,
			&tx.Amount, &tx.PaymentMethod, &tx.BalanceBefore, &tx.BalanceAfter,
			&tx.FreeConversionsBefore, &tx.FreeConversionsAfter, &tx.Description,
			&tx.IPAddress, &tx.IsSuccessful, &tx.ErrorMessage, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if docID.Valid {
			tx.DocumentID = &docID.String
		}
		if opType.Valid {
			tx.OperationType = domain.OperationType(opType.String)
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}

// Stats aggregates spending totals for the transaction history endpoint.
func (r *TransactionRepository) Stats(ctx context.Context, userID string) (*domain.TransactionStats, error) {
	var stats domain.TransactionStats
	row := r.store.queryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM transactions
		 WHERE user_id = ? AND transaction_type = 'conversion' AND is_successful = TRUE`, userID)
	if err := row.Scan(&stats.TotalSpentCents, &stats.TotalConversions); err != nil {
		return nil, err
	}

	row = r.store.queryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND transaction_type = 'balance_add' AND is_successful = TRUE`, userID)
	if err := row.Scan(&stats.TotalAddedCents); err != nil {
		return nil, err
	}

	row = r.store.queryRow(ctx,
		`SELECT COUNT(*) FROM transactions
		 WHERE user_id = ? AND transaction_type = 'conversion'
		   AND payment_method = 'free_conversion' AND is_successful = TRUE`, userID)
	if err := row.Scan(&stats.FreeConversionsUsed); err != nil {
		return nil, err
	}
	return &stats, nil
}
