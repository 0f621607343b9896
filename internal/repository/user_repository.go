package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pdf-converter/internal/domain"
)

// UserRepository persists users in the SQL store.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new user repository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.store.exec(ctx,
		`INSERT INTO users (id, username, email, is_superuser, api_key_hash, balance_cents, free_conversions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.IsSuperuser, user.APIKeyHash,
		user.Balance, user.FreeConversions, user.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.store.queryRow(ctx, selectUser+` WHERE id = ?`, id))
}

func (r *UserRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*domain.User, error) {
	user, err := r.scanOne(r.store.queryRow(ctx, selectUser+` WHERE api_key_hash = ?`, hash))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidAPIKey
	}
	return user, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanOne(r.store.queryRow(ctx, selectUser+` WHERE username = ?`, username))
}

// UpdateBalance writes new balance and free conversion counters for a user.
// The write is conditional on the previous counters so two concurrent charges
// cannot silently overwrite each other; a lost race returns
// domain.ErrConcurrentUpdate.
func (r *UserRepository) UpdateBalance(ctx context.Context, id string, balance int64, freeConversions int, prevBalance int64, prevFree int) error {
	res, err := r.store.exec(ctx,
		`UPDATE users SET balance_cents = ?, free_conversions = ?
		 WHERE id = ? AND balance_cents = ? AND free_conversions = ?`,
		balance, freeConversions, id, prevBalance, prevFree)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrConcurrentUpdate
	}
	return nil
}

const selectUser = `SELECT id, username, email, is_superuser, api_key_hash, balance_cents, free_conversions, created_at FROM users`

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsSuperuser, &u.APIKeyHash,
		&u.Balance, &u.FreeConversions, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation matches unique constraint errors from both backends
// without importing driver-specific error types.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
