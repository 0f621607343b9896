package handler

import (
	"encoding/json"
	"net/http"

	"pdf-converter/internal/domain"
	"pdf-converter/internal/service"
)

// UserHandler handles registration, profile and balance requests.
type UserHandler struct {
	users   *service.UserService
	billing *service.BillingService
	logger  domain.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, billing *service.BillingService, logger domain.Logger) *UserHandler {
	return &UserHandler{users: users, billing: billing, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerResponse struct {
	User   *domain.User `json:"user"`
	APIKey string       `json:"api_key"`
}

// Register creates a new account. The API key is returned exactly once.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, apiKey, err := h.users.Register(r.Context(), req.Username, req.Email, false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{User: user, APIKey: apiKey})
}

// Profile returns the identified user.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type addBalanceRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// AddBalance credits the account. Payment gateway integration is out of
// scope; the amount is credited directly and recorded in the ledger.
func (h *UserHandler) AddBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req addBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.billing.AddBalance(r.Context(), user, req.AmountCents, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance_cents": user.Balance,
		"transaction":   tx,
	})
}
