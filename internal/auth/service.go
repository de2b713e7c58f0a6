package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"rege/internal/log"
	"rege/internal/storage"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Account is the profile view returned to clients. It never carries the
// password hash.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Service implements sign-up, sign-in and profile management on top of the
// store.
type Service struct {
	store  *storage.Store
	tokens *TokenIssuer
	logger *log.Logger
}

func NewService(store *storage.Store, tokens *TokenIssuer, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// SignUp registers a new account and returns it with a fresh token.
func (s *Service) SignUp(ctx context.Context, email, password, fullName, phone string) (Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return Account{}, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return Account{}, "", ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Account{}, "", err
	}

	user := storage.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Phone:        strings.TrimSpace(phone),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return Account{}, "", ErrEmailTaken
		}
		return Account{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Account{}, "", err
	}

	s.logger.InfoContext(ctx, "account created",
		log.FieldOperation, log.OpSignUp,
		log.FieldUserID, user.ID)
	return accountOf(user), token, nil
}

// SignIn authenticates by email and password. Unknown email and wrong
// password both map to ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (Account, string, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Account{}, "", ErrInvalidCredentials
		}
		return Account{}, "", fmt.Errorf("get user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Account{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Account{}, "", err
	}

	s.logger.InfoContext(ctx, "signed in",
		log.FieldOperation, log.OpSignIn,
		log.FieldUserID, user.ID)
	return accountOf(user), token, nil
}

// Get returns the account for a user id.
func (s *Service) Get(ctx context.Context, userID string) (Account, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Account{}, fmt.Errorf("get user: %w", err)
	}
	return accountOf(user), nil
}

// UpdateProfile changes full name and phone.
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName, phone string) (Account, error) {
	if err := s.store.UpdateUserProfile(ctx, userID, strings.TrimSpace(fullName), strings.TrimSpace(phone)); err != nil {
		return Account{}, fmt.Errorf("update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// ChangePassword swaps the password after re-checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, current); err != nil {
		return ErrWrongPassword
	}
	if len(next) < 6 {
		return ErrWeakPassword
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.InfoContext(ctx, "password changed", log.FieldUserID, userID)
	return nil
}

// VerifyToken exposes token validation to the HTTP middleware.
func (s *Service) VerifyToken(raw string) (*Claims, error) {
	return s.tokens.Verify(raw)
}

func accountOf(u storage.User) Account {
	return Account{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
	}
}
