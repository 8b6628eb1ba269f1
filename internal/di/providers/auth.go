package providers

import (
	"github.com/samber/do/v2"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/config"
	"github.com/guftaho/guftaho-server/internal/logger"
)

// AuthKey is the PASETO symmetric key as a hex string.
type AuthKey string

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return "", err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
		"refresh_token_duration", cfg.Auth.RefreshTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
}
