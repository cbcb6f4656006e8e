// internal/service/merchant/auth.go
package merchant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/merchant"
	xerrors "dealdesk-service/internal/pkg/errors"
	"dealdesk-service/internal/pkg/jwt"
	"dealdesk-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(ctx context.Context, m *merchant.Merchant) error
	FindByID(ctx context.Context, id int64) (*merchant.Merchant, error)
	FindByEmail(ctx context.Context, email string) (*merchant.Merchant, error)
	UpdateProfile(ctx context.Context, m *merchant.Merchant) error
	UpdateStatus(ctx context.Context, id int64, status merchant.Status) error
	UpdateLastLogin(ctx context.Context, id int64) error
	List(ctx context.Context, filters *merchant.MerchantListFilters) ([]merchant.Merchant, int64, error)
}

type TokenIssuer interface {
	Generate(merchantID int64, role string) (*jwt.Token, error)
	TTL() time.Duration
}

type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *session.SessionData) error
	GetSession(ctx context.Context, merchantID int64, jti string) (*session.SessionData, error)
	InvalidateSession(ctx context.Context, merchantID int64, jti string) error
	InvalidateAll(ctx context.Context, merchantID int64) error
}

type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

// Notifier is told about account status changes. It must not block.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, m *merchant.Merchant)
}

type MerchantService struct {
	repo     Repository
	issuer   TokenIssuer
	verifier TokenVerifier
	sessions SessionStore
	limiter  LoginLimiter
	notifier Notifier
	logger   *zap.Logger
}

func NewMerchantService(
	repo Repository,
	issuer TokenIssuer,
	verifier TokenVerifier,
	sessions SessionStore,
	limiter LoginLimiter,
	notifier Notifier,
	logger *zap.Logger,
) *MerchantService {
	return &MerchantService{
		repo:     repo,
		issuer:   issuer,
		verifier: verifier,
		sessions: sessions,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
	}
}

// ========== Registration ==========

// Register creates a merchant account in onboarding status
func (s *MerchantService) Register(ctx context.Context, req *merchant.RegisterRequest) (*merchant.Merchant, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.BusinessName)
	m := &merchant.Merchant{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		Role:         merchant.RoleMerchant,
		Status:       merchant.StatusOnboarding,
		BusinessName: sql.NullString{String: name, Valid: name != ""},
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: email already registered", xerrors.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	s.logger.Info("merchant registered", zap.Int64("merchant_id", m.ID), zap.String("email", m.Email))
	return m, nil
}

// EnsureAdminExists creates the platform admin account on startup when it
// is missing.
func (s *MerchantService) EnsureAdminExists(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.logger.Warn("admin credentials not configured, skipping admin bootstrap")
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil && existing.Role == merchant.RoleAdmin:
		s.logger.Info("admin already exists, skipping creation")
		return nil
	case err == nil:
		return fmt.Errorf("email %s already belongs to a merchant account", email)
	case !errors.Is(err, xerrors.ErrNotFound):
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &merchant.Merchant{
		Email:        normalizeEmail(email),
		PasswordHash: string(hashedPassword),
		Role:         merchant.RoleAdmin,
		Status:       merchant.StatusActive,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin account created", zap.String("email", admin.Email))
	return nil
}

// ========== Login ==========

// Login authenticates a merchant with email/password
func (s *MerchantService) Login(ctx context.Context, req *merchant.LoginRequest, userAgent string) (*merchant.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, req.IPAddress, email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: too many login attempts, please try again later", xerrors.ErrRateLimited)
	}

	m, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", xerrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find merchant: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials (attempts remaining: %d)", xerrors.ErrUnauthorized, remaining)
	}

	if m.Status == merchant.StatusSuspended {
		return nil, fmt.Errorf("%w: account is suspended", xerrors.ErrForbidden)
	}

	if err := s.repo.UpdateLastLogin(ctx, m.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err), zap.Int64("merchant_id", m.ID))
	}
	if err := s.limiter.ResetLoginAttempts(ctx, req.IPAddress, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	token, err := s.issuer.Generate(m.ID, m.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	sessionData := &session.SessionData{
		JTI:        token.JTI,
		MerchantID: m.ID,
		Email:      m.Email,
		Role:       m.Role,
		IPAddress:  req.IPAddress,
		UserAgent:  userAgent,
		LoginAt:    time.Now(),
		ExpiresAt:  token.ExpiresAt,
	}
	if err := s.sessions.CreateSession(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &merchant.LoginResponse{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.issuer.TTL().Seconds()),
		ExpiresAt:   token.ExpiresAt,
		Merchant:    m,
	}, nil
}

// Logout invalidates the current session
func (s *MerchantService) Logout(ctx context.Context, merchantID int64, jti string) error {
	if err := s.sessions.InvalidateSession(ctx, merchantID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// ValidateToken verifies the signature and checks the session was not revoked
func (s *MerchantService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", xerrors.ErrUnauthorized, err)
	}

	if _, err := s.sessions.GetSession(ctx, claims.MerchantID, claims.ID); err != nil {
		if errors.Is(err, xerrors.ErrSessionExpired) {
			return nil, fmt.Errorf("%w: session not found or expired", xerrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MerchantService) notify(ctx context.Context, m *merchant.Merchant) {
	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, m)
	}
}
