package domain

import "time"

// TransactionType classifies ledger entries.
type TransactionType string

const (
	TxConversion TransactionType = "conversion"
	TxBalanceAdd TransactionType = "balance_add"
	TxRefund     TransactionType = "refund"
)

// PaymentMethod records how a transaction was paid.
type PaymentMethod string

const (
	PayFreeConversion PaymentMethod = "free_conversion"
	PayBalance        PaymentMethod = "balance"
	PayCreditCard     PaymentMethod = "credit_card"
)

// Transaction is one entry in the user's spending ledger. Balance and free
// conversion counters are snapshotted before and after so the history is
// auditable without replay. Amounts are euro cents.
type Transaction struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	DocumentID *string `json:"document_id,omitempty"`

	TransactionType TransactionType `json:"transaction_type"`
	OperationType   OperationType   `json:"operation_type,omitempty"`

	Amount        int64         `json:"amount_cents"`
	PaymentMethod PaymentMethod `json:"payment_method"`

	BalanceBefore         int64 `json:"balance_before_cents"`
	BalanceAfter          int64 `json:"balance_after_cents"`
	FreeConversionsBefore int   `json:"free_conversions_before"`
	FreeConversionsAfter  int   `json:"free_conversions_after"`

	Description  string    `json:"description"`
	IPAddress    string    `json:"-"`
	IsSuccessful bool      `json:"is_successful"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionStats aggregates a user's ledger for the history endpoint.
type TransactionStats struct {
	TotalSpentCents     int64 `json:"total_spent_cents"`
	TotalConversions    int   `json:"total_conversions"`
	TotalAddedCents     int64 `json:"total_added_cents"`
	FreeConversionsUsed int   `json:"free_conversions_used"`
}
