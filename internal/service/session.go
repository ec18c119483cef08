package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/id"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

const avatarBaseURL = "https://i.pravatar.cc/150?u="

// LoginRequest signs a reader in, creating the account on first use.
type LoginRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8,max=1024" minLength:"8" maxLength:"1024"`
}

// SessionResponse is returned on successful login.
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	ExpiresIn   int          `json:"expires_in"`
	User        *domain.User `json:"user"`
}

// SessionService handles password sign in.
// A reader account is created on first sign in under an unused name. The
// admin role is never granted at sign in; EnsureAdmin provisions it.
type SessionService struct {
	store        *store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
	now          func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(
	st *store.Store,
	tokenService *auth.TokenService,
	v *validation.Validator,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		store:        st,
		tokenService: tokenService,
		validator:    v,
		logger:       logger,
		now:          time.Now,
	}
}

// Login verifies the password of an existing reader, or registers a new
// reader under the name, and issues a token.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	req.Name = normalizeDisplayName(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.authenticate(ctx, req.Name, req.Password)
	if err != nil {
		return nil, err
	}

	token, expires, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate access token")
	}

	s.logger.Info("user logged in",
		"user_id", user.ID,
		"name", user.Name,
		"role", user.Role)

	return &SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expires,
		ExpiresIn:   int(s.tokenService.AccessTokenDuration().Seconds()),
		User:        user.Public(),
	}, nil
}

// EnsureAdmin creates the named account with the admin role, or promotes an
// existing one and resets its password. It is for operators, not clients.
func (s *SessionService) EnsureAdmin(ctx context.Context, name, password string) (*domain.User, error) {
	req := LoginRequest{Name: normalizeDisplayName(name), Password: password}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash password")
	}

	user, err := s.store.Users.GetByIndex(ctx, "name", req.Name)
	switch {
	case err == nil:
		user.Role = domain.RoleAdmin
		user.PasswordHash = hash
		if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "update user")
		}
	case errors.Is(err, store.ErrNotFound):
		user, err = s.create(ctx, req.Name, hash, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
	default:
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "find user")
	}

	s.logger.Info("admin account ready", "user_id", user.ID, "name", user.Name)
	return user.Public(), nil
}

// CurrentUser returns the user behind a verified token.
func (s *SessionService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get user")
	}
	return user.Public(), nil
}

func (s *SessionService) authenticate(ctx context.Context, name, password string) (*domain.User, error) {
	user, err := s.store.Users.GetByIndex(ctx, "name", name)
	switch {
	case err == nil:
		return s.verify(ctx, user, password)
	case !errors.Is(err, store.ErrNotFound):
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "find user")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash password")
	}

	user, err = s.create(ctx, name, hash, domain.RoleMember)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent first sign in under the same name.
		existing, getErr := s.store.Users.GetByIndex(ctx, "name", name)
		if getErr != nil {
			return nil, domainerrors.Wrap(getErr, domainerrors.CodeInternal, "find user")
		}
		return s.verify(ctx, existing, password)
	}
	return user, err
}

func (s *SessionService) verify(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("failed sign in", "user_id", user.ID)
		return nil, domainerrors.Unauthorized("invalid name or password")
	}

	user.LastLoginAt = s.now()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "update user")
	}
	return user, nil
}

// create stores a new user. It returns store.ErrAlreadyExists unwrapped so
// callers can detect a taken name.
func (s *SessionService) create(ctx context.Context, name, hash string, role domain.Role) (*domain.User, error) {
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate user id")
	}

	now := s.now()
	user := &domain.User{
		ID:           userID,
		Name:         name,
		Role:         role,
		Avatar:       avatarBaseURL + url.QueryEscape(userID),
		PasswordHash: hash,
		CreatedAt:    now,
		LastLoginAt:  now,
	}

	if err := s.store.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, err
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create user")
	}

	s.logger.Info("user created", "user_id", user.ID, "name", user.Name, "role", user.Role)
	return user, nil
}

func normalizeDisplayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
