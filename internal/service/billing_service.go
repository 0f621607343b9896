package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pdf-converter/internal/domain"
)

// BillingService charges conversions against the user's free quota or balance
// and keeps the transaction ledger. Free conversions are always consumed
// before balance.
type BillingService struct {
	users        domain.UserRepository
	pricing      domain.PricingRepository
	transactions domain.TransactionRepository
	logger       domain.Logger
}

// NewBillingService creates a new billing service.
func NewBillingService(
	users domain.UserRepository,
	pricing domain.PricingRepository,
	transactions domain.TransactionRepository,
	logger domain.Logger,
) *BillingService {
	return &BillingService{
		users:        users,
		pricing:      pricing,
		transactions: transactions,
		logger:       logger,
	}
}

// ChargeConversion deducts the cost of a completed conversion and records the
// transaction. Every attempt is recorded, including insufficient funds, which
// returns domain.ErrInsufficientFunds alongside the failed ledger entry.
func (s *BillingService) ChargeConversion(
	ctx context.Context,
	user *domain.User,
	documentID string,
	op domain.OperationType,
	pageCount int,
	ipAddress string,
) (*domain.Transaction, error) {
	pricing, err := s.pricing.GetByOperation(ctx, op)
	if errors.Is(err, domain.ErrPricingNotFound) {
		pricing = defaultPricingFor(op)
		if upsertErr := s.pricing.Upsert(ctx, pricing); upsertErr != nil {
			s.logger.Warn("Failed to persist default pricing", "operation", op, "error", upsertErr)
		}
	} else if err != nil {
		return nil, err
	}

	cost := pricing.CalculateCost(pageCount)

	tx := &domain.Transaction{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		DocumentID:      &documentID,
		TransactionType: domain.TxConversion,
		OperationType:   op,
		Description:     fmt.Sprintf("%s conversion", op),
		IPAddress:       ipAddress,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.applyBalance(ctx, user, func(u *domain.User) bool {
		tx.BalanceBefore = u.Balance
		tx.FreeConversionsBefore = u.FreeConversions

		switch {
		case u.FreeConversions > 0:
			u.FreeConversions--
			tx.PaymentMethod = domain.PayFreeConversion
			tx.Amount = 0
			tx.IsSuccessful = true
			tx.ErrorMessage = ""
		case u.Balance >= cost:
			u.Balance -= cost
			tx.PaymentMethod = domain.PayBalance
			tx.Amount = cost
			tx.IsSuccessful = true
			tx.ErrorMessage = ""
		default:
			tx.PaymentMethod = domain.PayBalance
			tx.Amount = cost
			tx.IsSuccessful = false
			tx.ErrorMessage = "insufficient funds"
		}

		tx.BalanceAfter = u.Balance
		tx.FreeConversionsAfter = u.FreeConversions
		return tx.IsSuccessful
	})
	if err != nil {
		return nil, err
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	if !tx.IsSuccessful {
		return tx, domain.ErrInsufficientFunds
	}
	return tx, nil
}

// Refund reverses a successful conversion charge after the conversion itself
// failed. Free conversions are restored in kind; balance charges are credited
// back.
func (s *BillingService) Refund(ctx context.Context, user *domain.User, charge *domain.Transaction) (*domain.Transaction, error) {
	refund := &domain.Transaction{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		DocumentID:      charge.DocumentID,
		TransactionType: domain.TxRefund,
		OperationType:   charge.OperationType,
		Amount:          charge.Amount,
		PaymentMethod:   charge.PaymentMethod,
		Description:     fmt.Sprintf("refund for failed %s conversion", charge.OperationType),
		IsSuccessful:    true,
		CreatedAt:       time.Now().UTC(),
	}

	err := s.applyBalance(ctx, user, func(u *domain.User) bool {
		refund.BalanceBefore = u.Balance
		refund.FreeConversionsBefore = u.FreeConversions
		if charge.PaymentMethod == domain.PayFreeConversion {
			u.FreeConversions++
		} else {
			u.Balance += charge.Amount
		}
		refund.BalanceAfter = u.Balance
		refund.FreeConversionsAfter = u.FreeConversions
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := s.transactions.Create(ctx, refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// AddBalance credits the user's account and records a balance_add transaction.
func (s *BillingService) AddBalance(ctx context.Context, user *domain.User, amount int64, ipAddress string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount_cents", Message: "must be positive"}
	}

	tx := &domain.Transaction{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		TransactionType: domain.TxBalanceAdd,
		Amount:          amount,
		PaymentMethod:   domain.PayCreditCard,
		Description:     fmt.Sprintf("Balance top-up of %s", domain.FormatCents(amount)),
		IPAddress:       ipAddress,
		IsSuccessful:    true,
		CreatedAt:       time.Now().UTC(),
	}

	err := s.applyBalance(ctx, user, func(u *domain.User) bool {
		tx.BalanceBefore = u.Balance
		tx.FreeConversionsBefore = u.FreeConversions
		u.Balance += amount
		tx.BalanceAfter = u.Balance
		tx.FreeConversionsAfter = u.FreeConversions
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// balanceUpdateRetries bounds the optimistic retry loop for concurrent
// balance updates on the same user.
const balanceUpdateRetries = 3

// applyBalance runs apply against the user's current balance counters and
// persists the result with a conditional write. When another writer got in
// between, the user is reloaded and apply runs again on the fresh counters.
// apply returns false to skip the write, for charges that cannot be paid.
func (s *BillingService) applyBalance(ctx context.Context, user *domain.User, apply func(*domain.User) bool) error {
	for attempt := 0; ; attempt++ {
		prevBalance, prevFree := user.Balance, user.FreeConversions
		if !apply(user) {
			return nil
		}

		err := s.users.UpdateBalance(ctx, user.ID, user.Balance, user.FreeConversions, prevBalance, prevFree)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConcurrentUpdate) || attempt >= balanceUpdateRetries {
			return err
		}

		fresh, err := s.users.GetByID(ctx, user.ID)
		if err != nil {
			return err
		}
		*user = *fresh
	}
}

// History returns the user's ledger together with aggregate stats.
func (s *BillingService) History(ctx context.Context, userID string, limit int) ([]*domain.Transaction, *domain.TransactionStats, error) {
	txs, err := s.transactions.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.transactions.Stats(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return txs, stats, nil
}

// defaultPricingFor mirrors the seed row created on demand when an operation
// has no pricing configured yet.
func defaultPricingFor(op domain.OperationType) *domain.ConversionPricing {
	return &domain.ConversionPricing{
		OperationType: op,
		PricingType:   domain.PricingFilePlusPages,
		BasePrice:     50,
		PricePerPage:  10,
		MinimumCharge: 10,
		FreeLimit:     domain.DefaultFreeConversions,
		Description:   fmt.Sprintf("%s conversion", op),
		IsActive:      true,
	}
}
