package domain

import (
	"context"
	"io"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config exposes the read-only settings the rest of the process depends on.
// It is populated exactly once at boot and never mutated afterwards.
type Config interface {
	GetServerAddr() string
	GetSecretKey() string
	GetDebug() bool
	GetAllowedHosts() []string
	GetMediaRoot() string
	GetStaticRoot() string
	GetMaxUploadSize() int64
	GetWorkers() int
	GetLogLevel() string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// UpdateBalance writes new balance counters only when the stored values
	// still match prevBalance/prevFree; a mismatch returns ErrConcurrentUpdate
	// so the caller can reload and retry.
	UpdateBalance(ctx context.Context, id string, balance int64, freeConversions int, prevBalance int64, prevFree int) error
}

// DocumentRepository defines persistence operations for documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	GetByUserID(ctx context.Context, userID string, limit int) ([]*Document, error)
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (*DocumentStats, error)
	DeleteStale(ctx context.Context, olderThanHours int) ([]*Document, error)
}

// PricingRepository defines persistence operations for the pricing table.
type PricingRepository interface {
	GetByOperation(ctx context.Context, op OperationType) (*ConversionPricing, error)
	ListActive(ctx context.Context) ([]*ConversionPricing, error)
	Upsert(ctx context.Context, pricing *ConversionPricing) error
}

// TransactionRepository defines persistence operations for the ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]*Transaction, error)
	Stats(ctx context.Context, userID string) (*TransactionStats, error)
}

// StorageService abstracts where uploaded and converted files live.
// Paths are backend-relative keys, not absolute filesystem paths.
type StorageService interface {
	Save(ctx context.Context, path string, r io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// Converter turns an uploaded source file into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, docType DocumentType, src io.Reader) (pdf []byte, pageCount int, err error)
}

// Mailer sends plain-text notifications. Implementations may be no-ops when
// outbound mail is not configured.
type Mailer interface {
	Send(to, subject, body string) error
}
