package service

import (
	"context"
	"errors"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
)

// loadUser returns the account behind a verified token.
func loadUser(ctx context.Context, st *store.Store, userID string) (*domain.User, error) {
	u, err := st.Users.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("unknown user")
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get user")
	}
	return u, nil
}

// requireAdmin checks the stored role rather than token claims.
func requireAdmin(ctx context.Context, st *store.Store, userID string) (*domain.User, error) {
	u, err := loadUser(ctx, st, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, domainerrors.Forbidden("admin access required")
	}
	return u, nil
}
