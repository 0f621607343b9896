package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdf-converter/internal/domain"
)

// UserService manages accounts and API keys. Keys are random, shown once at
// creation, and stored only as an HMAC-SHA256 keyed by the process secret.
type UserService struct {
	users     domain.UserRepository
	secretKey string
	logger    domain.Logger
}

// NewUserService creates a new user service.
func NewUserService(users domain.UserRepository, secretKey string, logger domain.Logger) *UserService {
	return &UserService{users: users, secretKey: secretKey, logger: logger}
}

// Register creates a user with the default free conversion quota and returns
// the user together with the plaintext API key.
func (s *UserService) Register(ctx context.Context, username, email string, superuser bool) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", &domain.ValidationError{Field: "username", Message: "cannot be empty"}
	}
	email = strings.TrimSpace(email)

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		IsSuperuser:     superuser,
		APIKeyHash:      s.HashAPIKey(apiKey),
		FreeConversions: domain.DefaultFreeConversions,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", "username", username, "superuser", superuser)
	return user, apiKey, nil
}

// Identify resolves an API key to its user.
func (s *UserService) Identify(ctx context.Context, apiKey string) (*domain.User, error) {
	if apiKey == "" {
		return nil, domain.ErrInvalidAPIKey
	}
	return s.users.GetByAPIKeyHash(ctx, s.HashAPIKey(apiKey))
}

// HashAPIKey derives the stored hash for an API key.
func (s *UserService) HashAPIKey(apiKey string) string {
	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(apiKey))
	return hex.EncodeToString(mac.Sum(nil))
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "pdfc_" + hex.EncodeToString(buf), nil
}
