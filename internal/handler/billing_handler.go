package handler

import (
	"net/http"

	"pdf-converter/internal/domain"
	"pdf-converter/internal/service"
)

// BillingHandler serves the pricing table and transaction history.
type BillingHandler struct {
	billing *service.BillingService
	pricing domain.PricingRepository
	logger  domain.Logger
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(billing *service.BillingService, pricing domain.PricingRepository, logger domain.Logger) *BillingHandler {
	return &BillingHandler{billing: billing, pricing: pricing, logger: logger}
}

// Pricing returns all active pricing rows. No identification required.
func (h *BillingHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	rows, err := h.pricing.ListActive(r.Context())
	if err != nil {
		h.logger.Error("Failed to load pricing", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pricing": rows})
}

// Transactions returns the user's ledger with aggregate stats.
func (h *BillingHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	txs, stats, err := h.billing.History(r.Context(), user.ID, 50)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"stats":        stats,
	})
}
