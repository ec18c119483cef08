package providers

import (
	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
)

// AuthKey wraps the session key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the session key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	cfg.Auth.AccessTokenKey = key

	log.Info("Session key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
		"admin_provisioned", cfg.Auth.AdminPassword != "",
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}
