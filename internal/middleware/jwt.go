package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/secure-user-api/internal/auth"
	"github.com/iliyamo/secure-user-api/internal/logger"
)

// ContextKeyUsername is where JWTAuth stores the authenticated username.
const ContextKeyUsername = "username"

// TokenValidator is satisfied by *auth.TokenManager.
type TokenValidator interface {
	Validate(raw string) (auth.Identity, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject into the request context.  Every failure,
// whether the header is missing, the token malformed, the signature wrong or
// the token expired, gets the same 401 body so callers cannot tell which
// check failed.  The reason is logged at debug level without the token.
func JWTAuth(tokens TokenValidator, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}
			id, err := tokens.Validate(raw)
			if err != nil {
				log.Debug("bearer rejected", "reason", err.Error(), "path", c.Path())
				return unauthorized(c)
			}
			c.Set(ContextKeyUsername, id.Username)
			return next(c)
		}
	}
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>"
// header.  The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
