package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// AuthService coordinates registration, login and account maintenance.
type AuthService struct {
	accounts repository.AccountRepository
	roster   repository.RosterRepository
	revoked  auth.RevocationStore
	events   events.Dispatcher
	hasher   *auth.PasswordHasher
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	RosterRepo  repository.RosterRepository
	Revocations auth.RevocationStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	DisplayName string
	Email       string
	Password    string
	Code        string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts: deps.AccountRepo,
		roster:   deps.RosterRepo,
		revoked:  deps.Revocations,
		events:   deps.Dispatcher,
		hasher: auth.NewPasswordHasher(auth.Argon2Params{
			Time:      cfg.Auth.Argon2Time,
			MemoryKiB: cfg.Auth.Argon2MemoryKiB,
			Threads:   cfg.Auth.Argon2Threads,
		}),
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		logger:   logger,
	}
}

// Register creates an account whose role comes from the roster entry for in.Code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Email = normalizeEmail(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	if err := requireFields(map[string]string{
		"display_name": in.DisplayName,
		"email":        in.Email,
		"password":     in.Password,
		"code":         in.Code,
	}); err != nil {
		return nil, err
	}

	if _, err := s.roster.GetByCode(ctx, in.Code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: hash,
		RosterCode:   in.Code,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account registered", zap.Int64("account_id", account.ID), zap.String("role", string(account.Role)))
	ev := events.New(events.EventAccountRegistered, events.AccountRegisteredPayload{Role: account.Role})
	ev.AccountID = account.ID
	publish(ctx, s.events, s.logger, ev)
	return account, nil
}

// Authenticate checks existence, then roster code, then password.
func (s *AuthService) Authenticate(ctx context.Context, email, password, code string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account.RosterCode != strings.TrimSpace(code) {
		return nil, domain.ErrCodeMismatch
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.ErrBadPassword
	}

	if s.hasher.NeedsRehash(account.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
				s.logger.Warn("password rehash not stored", zap.Int64("account_id", account.ID), zap.Error(err))
			} else {
				account.PasswordHash = hash
			}
		}
	}
	return account, nil
}

// Login authenticates and issues a bearer session.
func (s *AuthService) Login(ctx context.Context, email, password, code string) (*domain.Account, *domain.Session, error) {
	account, err := s.Authenticate(ctx, email, password, code)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, nil, err
	}
	return account, session, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoked == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// UpdateProfile overwrites display name and email. A taken email yields domain.ErrDuplicateEmail.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID int64, displayName, email string) (*domain.Account, error) {
	displayName = strings.TrimSpace(displayName)
	email = normalizeEmail(email)
	if err := requireFields(map[string]string{"display_name": displayName, "email": email}); err != nil {
		return nil, err
	}
	account, err := s.accounts.UpdateProfile(ctx, accountID, displayName, email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", zap.Int64("account_id", accountID))
	ev := events.New(events.EventProfileUpdated, nil)
	ev.AccountID = accountID
	publish(ctx, s.events, s.logger, ev)
	return account, nil
}

// RecoverPassword resets the password when email and roster code both match.
// Any mismatch reports false without saying which part was wrong.
func (s *AuthService) RecoverPassword(ctx context.Context, email, code, newPassword string) (bool, error) {
	if newPassword == "" {
		return false, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return false, err
	}
	updated, err := s.accounts.UpdatePasswordByEmailAndCode(ctx, normalizeEmail(email), strings.TrimSpace(code), hash)
	if err != nil {
		return false, err
	}
	if updated {
		s.logger.Info("password recovered")
		publish(ctx, s.events, s.logger, events.New(events.EventPasswordRecovered, nil))
	}
	return updated, nil
}

// GetAccount loads an account by id.
func (s *AuthService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
