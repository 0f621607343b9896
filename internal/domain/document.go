package domain

import "time"

// ConversionStatus is the lifecycle state of a document conversion.
type ConversionStatus string

const (
	StatusPending    ConversionStatus = "pending"
	StatusProcessing ConversionStatus = "processing"
	StatusCompleted  ConversionStatus = "completed"
	StatusFailed     ConversionStatus = "failed"
)

// DocumentType identifies the source format of an uploaded file.
type DocumentType string

const (
	TypeDocx  DocumentType = "docx"
	TypeXlsx  DocumentType = "xlsx"
	TypePptx  DocumentType = "pptx"
	TypeImage DocumentType = "image"
	TypeMerge DocumentType = "merge"
)

// Document represents an uploaded file and its conversion result.
type Document struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	OriginalName  string           `json:"original_name"`
	OriginalPath  string           `json:"-"`
	ConvertedPath string           `json:"-"`
	DocumentType  DocumentType     `json:"document_type"`
	Status        ConversionStatus `json:"status"`
	FileSize      int64            `json:"file_size"`
	PageCount     int              `json:"page_count"`
	CreatedAt     time.Time        `json:"created_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

// DocumentStats aggregates a user's conversion history for the dashboard.
type DocumentStats struct {
	TotalConversions int   `json:"total_conversions"`
	Successful       int   `json:"successful"`
	Failed           int   `json:"failed"`
	TotalSpentCents  int64 `json:"total_spent_cents"`
}
