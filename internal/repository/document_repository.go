package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pdf-converter/internal/domain"
)

// DocumentRepository persists documents in the SQL store.
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(store *Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.store.exec(ctx,
		`INSERT INTO documents (id, user_id, original_name, original_path, converted_path,
		 document_type, status, file_size, page_count, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.UserID, doc.OriginalName, doc.OriginalPath, doc.ConvertedPath,
		doc.DocumentType, doc.Status, doc.FileSize, doc.PageCount, doc.CreatedAt, doc.CompletedAt)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.store.queryRow(ctx, selectDocument+` WHERE id = ?`, id)
	return scanDocument(row)
}

// GetByUserID returns the user's documents, newest first. limit <= 0 means no
// limit.
func (r *DocumentRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.Document, error) {
	q := selectDocument + ` WHERE user_id = ? ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.store.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	res, err := r.store.exec(ctx,
		`UPDATE documents SET converted_path = ?, status = ?, page_count = ?, completed_at = ? WHERE id = ?`,
		doc.ConvertedPath, doc.Status, doc.PageCount, doc.CompletedAt, doc.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.exec(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// Stats aggregates the dashboard numbers for one user.
func (r *DocumentRepository) Stats(ctx context.Context, userID string) (*domain.DocumentStats, error) {
	var stats domain.DocumentStats
	row := r.store.queryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		 FROM documents WHERE user_id = ?`, userID)
	if err := row.Scan(&stats.TotalConversions, &stats.Successful, &stats.Failed); err != nil {
		return nil, err
	}

	row = r.store.queryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND transaction_type = 'conversion' AND is_successful = TRUE`, userID)
	if err := row.Scan(&stats.TotalSpentCents); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteStale removes failed or never-finished documents older than the
// cutoff and returns them so the caller can delete the stored files too.
func (r *DocumentRepository) DeleteStale(ctx context.Context, olderThanHours int) ([]*domain.Document, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(olderThanHours) * time.Hour)
	rows, err := r.store.query(ctx,
		selectDocument+` WHERE status IN ('failed', 'pending', 'processing') AND created_at < ?`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stale, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}

	for _, doc := range stale {
		if _, err := r.store.exec(ctx, `DELETE FROM documents WHERE id = ?`, doc.ID); err != nil {
			return stale, err
		}
	}
	return stale, nil
}

const selectDocument = `SELECT id, user_id, original_name, original_path, converted_path,
	document_type, status, file_size, page_count, created_at, completed_at FROM documents`

func scanDocument(row *sql.Row) (*domain.Document, error) {
	var d domain.Document
	var completedAt sql.NullTime
	err := row.Scan(&d.ID, &d.UserID, &d.OriginalName, &d.OriginalPath, &d.ConvertedPath,
		&d.DocumentType, &d.Status, &d.FileSize, &d.PageCount, &d.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		d.CompletedAt = &completedAt.Time
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]*domain.Document, error) {
	docs := make([]*domain.Document, 0)
	for rows.Next() {
		var d domain.Document
		var completedAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.UserID, &d.OriginalName, &d.OriginalPath, &d.ConvertedPath,
			&d.DocumentType, &d.Status, &d.FileSize, &d.PageCount, &d.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			d.CompletedAt = &completedAt.Time
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
