package http

import (
	"log/slog"
	"net/http"
	"slices"

	"marketplace/internal/core/domain/model/party"
	"marketplace/internal/pkg/auth"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const principalKey = "principal"

// Authenticate resolves the bearer token into an auth.Principal stored on both
// the echo context and the request context. Browsers cannot set headers on a
// WebSocket handshake, so a token query parameter is accepted as a fallback.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := auth.BearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				token = ctx.QueryParam("token")
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
			}

			principal, err := auth.ParseToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			}

			ctx.Set(principalKey, principal)
			ctx.SetRequest(ctx.Request().WithContext(auth.WithPrincipal(ctx.Request().Context(), principal)))
			return next(ctx)
		}
	}
}

// RequireRole rejects principals outside roles with 403.
func RequireRole(roles ...party.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, ok := principal(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
			}
			if !slices.Contains(roles, p.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "role "+p.Role.String()+" may not use this route")
			}
			return next(ctx)
		}
	}
}

// principal returns the caller stored by the authentication middleware.
func principal(ctx echo.Context) (auth.Principal, bool) {
	p, ok := ctx.Get(principalKey).(auth.Principal)
	return p, ok
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.String("route", v.RoutePath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
			}

			logger.LogAttrs(ctx.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
