// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
)

const (
	// DefaultLoginHistoryLimit applies when a history request names no
	// limit.
	DefaultLoginHistoryLimit = 10
	// MaxLoginHistoryLimit caps one login-history page.
	MaxLoginHistoryLimit = 50
)

// LoginInput carries the credentials and client metadata for a login.
type LoginInput struct {
	Username   string
	RememberMe bool
	DeviceInfo string
	IPAddress  string
}

// Session is the result of a successful login.
type Session struct {
	User       *domain.User `json:"user"`
	Token      string       `json:"token"`
	SessionID  string       `json:"session_id"`
	ExpiresAt  time.Time    `json:"expires_at"`
	LoginCount int64        `json:"login_count"`
}

// Identity is the resolved owner of a verified token.
type Identity struct {
	User       *domain.User `json:"user"`
	IssuedAt   time.Time    `json:"token_issued_at"`
	LoginCount int64        `json:"login_count"`
	LastLogin  *time.Time   `json:"last_login"`
}

// AuthService is the placeholder identity layer: username-only login, token
// verification and a login audit trail. No passwords are involved.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*Session, error)
	WhoAmI(ctx context.Context, token string) (*Identity, error)
	LoginHistory(ctx context.Context, userID int64, limit int) ([]domain.LoginRecord, error)
}

type authService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	logins     repository.LoginHistoryRepository
	tokens     TokenProvider
	now        func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	logins repository.LoginHistoryRepository,
	tokens TokenProvider,
) AuthService {
	return &authService{
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		logins:     logins,
		tokens:     tokens,
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username must not be empty: %w", util.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, fmt.Errorf("login: failed to fetch user %q: %w", username, err)
	}

	issuedAt := s.now().UTC()
	token, expiresAt, err := s.tokens.Issue(user.ID, issuedAt, input.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("login: failed to issue token: %w", err)
	}

	stats, err := s.logins.StatsForUser(ctx, s.dbExecutor, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: failed to fetch login stats: %w", err)
	}

	record := &domain.LoginRecord{
		UserID:     user.ID,
		SessionID:  uuid.NewString(),
		DeviceInfo: input.DeviceInfo,
		IPAddress:  input.IPAddress,
		CreatedAt:  issuedAt,
	}
	// The audit trail is best effort; a failed insert must not block the
	// login itself.
	if err := s.logins.Create(ctx, s.dbExecutor, record); err != nil {
		util.GetLogger().Warn("failed to record login",
			slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	return &Session{
		User:       user,
		Token:      token,
		SessionID:  record.SessionID,
		ExpiresAt:  expiresAt,
		LoginCount: stats.LoginCount + 1,
	}, nil
}

func (s *authService) WhoAmI(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, util.ErrUnauthorized
	}

	userID, issuedAt, err := s.tokens.Verify(token, s.now().UTC())
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, fmt.Errorf("whoami: failed to fetch user %d: %w", userID, err)
	}

	stats, err := s.logins.StatsForUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("whoami: failed to fetch login stats: %w", err)
	}

	identity := &Identity{User: user, IssuedAt: issuedAt, LoginCount: stats.LoginCount}
	if stats.LastLogin.Valid {
		last := stats.LastLogin.Time
		identity.LastLogin = &last
	}
	return identity, nil
}

func (s *authService) LoginHistory(ctx context.Context, userID int64, limit int) ([]domain.LoginRecord, error) {
	if limit == 0 {
		limit = DefaultLoginHistoryLimit
	}
	if limit < 0 || limit > MaxLoginHistoryLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", MaxLoginHistoryLimit, util.ErrInvalidInput)
	}

	exists, err := s.userRepo.Exists(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("login history: failed to check user %d: %w", userID, err)
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}

	records, err := s.logins.ListByUser(ctx, s.dbExecutor, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("login history: %w", err)
	}
	return records, nil
}
