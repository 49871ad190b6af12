package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/config"
	"laundryops/pkg/logger"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Authenticator validates bearer tokens against a shared HMAC secret or a remote JWKS.
type Authenticator struct {
	cfg  config.AuthConfig
	jwks *keyfunc.JWKS
	logg *logger.Logger
}

// NewAuthenticator fetches the key set up front when a JWKS URL is configured.
func NewAuthenticator(cfg config.AuthConfig, logg *logger.Logger) (*Authenticator, error) {
	a := &Authenticator{cfg: cfg, logg: logg}
	if cfg.JWKSURL == "" {
		return a, nil
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logg.Error(context.Background(), "jwks refresh failed", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	a.jwks = jwks
	return a, nil
}

// Middleware rejects requests without a valid token and stores the token subject
// on the request context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	cfg := echojwt.Config{
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				return
			}
			ctx := context.WithValue(c.Request().Context(), common.SubjectKey, sub)
			ctx = a.logg.WithField(ctx, "subject", sub)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			message := "invalid or expired token"
			var missing *echojwt.TokenExtractionError
			if errors.As(err, &missing) {
				message = "missing bearer token"
			}
			return common.SendError(c, &common.AppError{Code: common.CodeUnauthorized, Message: message})
		},
	}
	if a.jwks != nil {
		cfg.KeyFunc = a.jwks.Keyfunc
	} else {
		cfg.SigningKey = []byte(a.cfg.JWTSecret)
	}
	return echojwt.WithConfig(cfg)
}

// Close stops the JWKS refresh goroutine.
func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}
