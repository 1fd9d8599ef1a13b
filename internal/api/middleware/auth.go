package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

const (
	userKey        = "user"
	authFailureKey = "auth_failure"
)

const (
	reasonMissingHeader = "missing_header"
	reasonInvalidHeader = "invalid_header"
	reasonInvalidToken  = "invalid_token"
	reasonNotOwner      = "not_owner"
)

// Authenticate resolves the "<scheme> <token>" Authorization header to a
// user and stores it in the context. Requests without usable credentials
// pass through anonymously; RequireUser rejects them where needed.
func Authenticate(authn ports.TokenAuthenticator, scheme string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				c.Set(authFailureKey, reasonMissingHeader)
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) || parts[1] == "" {
				c.Set(authFailureKey, reasonInvalidHeader)
				return next(c)
			}

			user, err := authn.AuthenticateWithToken(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}
			if user == nil {
				c.Set(authFailureKey, reasonInvalidToken)
				return next(c)
			}

			clean := user.Sanitized()
			c.Set(userKey, &clean)
			return next(c)
		}
	}
}

// RequireUser halts the pipeline with 401 unless Authenticate resolved a user.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserFrom(c) == nil {
				reason, _ := c.Get(authFailureKey).(string)
				if reason == "" {
					reason = reasonMissingHeader
				}
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireSelf rejects PUT and DELETE on /:id with 403 unless :id is the
// authenticated user's own id. Ids that do not parse are left for
// RequireValidID.
func RequireSelf() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodPut, http.MethodDelete:
			default:
				return next(c)
			}
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				return next(c)
			}
			if user := UserFrom(c); user == nil || user.ID != id {
				metrics.AuthFailuresTotal.WithLabelValues(reasonNotOwner).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "only the account owner may modify this user")
			}
			return next(c)
		}
	}
}

// UserFrom returns the authenticated user, or nil.
func UserFrom(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}
