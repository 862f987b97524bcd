package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopstack/accounts-api/internal/api/metrics"
	"github.com/shopstack/accounts-api/internal/core/domain"
	"github.com/shopstack/accounts-api/internal/core/ports"
)

// NotificationDispatcher abstracts the async outbound-mail queue. Enqueue
// must not block the caller; delivery failures are reported by the dispatcher
// itself, not through this interface.
type NotificationDispatcher interface {
	Enqueue(n ports.Notification)
}

// Config carries the auth-service tunables resolved at startup.
type Config struct {
	// LinkBaseURL is the frontend origin used to build verification and
	// reset links, e.g. "http://localhost:5173".
	LinkBaseURL    string
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

// AuthService orchestrates the account lifecycle: registration, email
// verification, login, and password reset.
type AuthService struct {
	accounts   ports.AccountRepository
	tokens     ports.TokenRepository
	hasher     ports.PasswordHasher
	sessions   ports.SessionIssuer
	dispatcher NotificationDispatcher
	cfg        Config
	log        zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	tokens ports.TokenRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionIssuer,
	dispatcher NotificationDispatcher,
	cfg Config,
	log zerolog.Logger,
) *AuthService {
	if cfg.VerifyTokenTTL <= 0 {
		cfg.VerifyTokenTTL = 24 * time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &AuthService{
		accounts:   accounts,
		tokens:     tokens,
		hasher:     hasher,
		sessions:   sessions,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
	}
}

// Register creates an unverified account and queues a verification email.
// The account starts in the pending-verification state; no session is issued
// until the email is confirmed.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, account.ID, domain.PurposeEmailVerification, s.cfg.VerifyTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeEmailVerification)).Inc()

	url := fmt.Sprintf("%s/verify/%s/%s", s.cfg.LinkBaseURL, account.ID, token.Secret)
	s.dispatcher.Enqueue(ports.Notification{
		To:      account.Email,
		Subject: "Verify Email",
		Body:    "Click this link to verify your email: " + url,
	})

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Str("account_id", account.ID).Msg("account registered")

	return account, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
// A stale link clicked after the account is already verified is treated as
// success, not failure.
func (s *AuthService) VerifyEmail(ctx context.Context, accountID, token string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.tokens.Consume(ctx, account.ID, domain.PurposeEmailVerification, token); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			if account.Verified {
				return nil
			}
			metrics.TokensConsumedTotal.WithLabelValues(string(domain.PurposeEmailVerification), "invalid").Inc()
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("consume verification token: %w", err)
	}
	metrics.TokensConsumedTotal.WithLabelValues(string(domain.PurposeEmailVerification), "ok").Inc()

	if err := s.accounts.SetVerified(ctx, account.ID); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("email verified")
	return nil
}

// Login authenticates by email and password and issues a session token.
// An unknown email and a wrong password yield the same error so responses do
// not reveal which emails are registered.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !account.Verified {
		metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		return nil, domain.ErrEmailNotVerified
	}

	session, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")

	return &ports.LoginResult{
		Account:      summary(account),
		SessionToken: session,
	}, nil
}

// ForgotPassword issues a reset token and queues the reset email. An unknown
// email fails with ErrAccountNotFound; the resulting 404 mirrors the original
// product behavior and is a deliberate usability/enumeration tradeoff.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrMissingFields
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, account.ID, domain.PurposePasswordReset, s.cfg.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposePasswordReset)).Inc()

	url := fmt.Sprintf("%s/reset-password/%s/%s", s.cfg.LinkBaseURL, account.ID, token.Secret)
	s.dispatcher.Enqueue(ports.Notification{
		To:      account.Email,
		Subject: "Reset Password",
		Body:    "Click here to reset your password: " + url,
	})

	s.log.Info().Str("account_id", account.ID).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a reset token and replaces the stored hash. The
// account does not need to be verified to reset its password.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	if in.NewPassword == "" {
		return domain.ErrMissingFields
	}

	if err := s.tokens.Consume(ctx, in.AccountID, domain.PurposePasswordReset, in.Token); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			metrics.TokensConsumedTotal.WithLabelValues(string(domain.PurposePasswordReset), "invalid").Inc()
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	metrics.TokensConsumedTotal.WithLabelValues(string(domain.PurposePasswordReset), "ok").Inc()

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.SetPasswordHash(ctx, in.AccountID, hash); err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}

	s.log.Info().Str("account_id", in.AccountID).Msg("password reset")
	return nil
}

// GetAccount resolves the public projection for a session-authenticated
// account. A valid session whose account has disappeared is an invalid
// session, not a 404.
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*ports.AccountSummary, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	out := summary(account)
	return &out, nil
}

func summary(a *domain.Account) ports.AccountSummary {
	return ports.AccountSummary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Verified: a.Verified,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
