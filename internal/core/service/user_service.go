package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

const tokenEntropyBytes = 48

// UserService implements ports.UserService. Password hashes never leave it.
type UserService struct {
	repo   ports.UserRepository
	cost   int
	now    func() time.Time
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cost:   bcrypt.DefaultCost,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("resource", "user").Logger(),
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(err, "list")
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	return s.found(user, err, "get")
}

// Create hashes the password and issues a fresh token before insert.
func (s *UserService) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	user := domain.User{
		Email:    in.Email,
		Password: hash,
		Token:    token,
		RoleID:   in.Role,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, s.fail(err, "create")
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	created := user.Sanitized()
	return &created, nil
}

// Update replaces email, password and role. The token is left untouched.
func (s *UserService) Update(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateColumns(ctx, id, map[string]any{
		"email":    in.Email,
		"password": hash,
		"role_id":  in.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(err, "update")
	}
	user, err := s.repo.FindByID(ctx, id)
	return s.found(user, err, "update")
}

func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, s.fail(err, "delete")
	}
	return true, nil
}

// AuthenticateWithPassword returns the user when email and password match,
// nil otherwise. lastLoginAt is only written on success.
func (s *UserService) AuthenticateWithPassword(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(err, "authenticate")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}

	now := s.now()
	if err := s.repo.UpdateColumns(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, s.fail(err, "authenticate")
	}
	user.LastLoginAt = &now

	out := user.Sanitized()
	return &out, nil
}

func (s *UserService) AuthenticateWithToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	user, err := s.repo.FindByToken(ctx, token)
	return s.found(user, err, "authenticate")
}

// SetPassword stores a new hash for user. Only the password column is written.
func (s *UserService) SetPassword(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	if user.ID != 0 {
		if err := s.repo.UpdateColumns(ctx, user.ID, map[string]any{"password": hash}); err != nil {
			return nil, s.fail(err, "set password")
		}
	}
	out := user.Sanitized()
	return &out, nil
}

// RegenerateToken issues a new token for user. Only the token column is written.
func (s *UserService) RegenerateToken(ctx context.Context, user *domain.User) (*domain.User, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	if user.ID != 0 {
		if err := s.repo.UpdateColumns(ctx, user.ID, map[string]any{"token": token}); err != nil {
			return nil, s.fail(err, "regenerate token")
		}
	}
	out := user.Sanitized()
	out.Token = token
	return &out, nil
}

func (s *UserService) found(user *domain.User, err error, op string) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(err, op)
	}
	out := user.Sanitized()
	return &out, nil
}

func (s *UserService) hash(password string) (string, error) {
	if password == "" {
		return "", &domain.StorageError{Kind: domain.KindInvalidData, Message: "password must not be empty"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &domain.StorageError{Kind: domain.KindInvalidData, Message: "password must be at most 72 bytes", Err: err}
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) fail(err error, op string) error {
	if domain.IsClientError(err) {
		s.logger.Debug().Err(err).Str("op", op).Msg("rejected by storage")
		return err
	}
	s.logger.Error().Err(err).Str("op", op).Msg("storage failure")
	return err
}

// generateToken returns 48 random bytes, base64-encoded with '+' and '/'
// replaced by '.'.
func generateToken() (string, error) {
	b := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return strings.NewReplacer("+", ".", "/", ".").Replace(base64.StdEncoding.EncodeToString(b)), nil
}
