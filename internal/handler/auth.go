package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/secure-user-api/internal/auth"
	"github.com/iliyamo/secure-user-api/internal/logger"
	"github.com/iliyamo/secure-user-api/internal/middleware"
	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/queue"
	"github.com/iliyamo/secure-user-api/internal/sanitize"
	"github.com/iliyamo/secure-user-api/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth      *auth.Authenticator
	Tokens    *auth.TokenManager
	Sanitizer *sanitize.Sanitizer
	Audit     *service.LoginAuditor
	Log       *logger.Logger
	Timeouts  Timeouts
}

func NewAuthHandler(a *auth.Authenticator, t *auth.TokenManager, s *sanitize.Sanitizer, audit *service.LoginAuditor, log *logger.Logger, to Timeouts) *AuthHandler {
	return &AuthHandler{Auth: a, Tokens: t, Sanitizer: s, Audit: audit, Log: log, Timeouts: to}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login: verify credentials and return a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	// Empty fields are ordinary failed logins: same 401, same bcrypt cost.

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeouts.request())
	defer cancel()

	safeName := h.Sanitizer.ForLog(req.Username)
	id, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Log.Info("login failed", "username", safeName, "ip", c.RealIP())
			h.audit(c, safeName, queue.OutcomeFailure)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrInvalidCredentials.Error()})
		}
		return storageFailure(c, h.Log, "login", err)
	}

	tok, err := h.Tokens.Issue(id)
	if err != nil {
		h.Log.Error("issue token failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.Log.Info("login succeeded", "username", safeName)
	h.audit(c, safeName, queue.OutcomeSuccess)
	return c.JSON(http.StatusOK, model.LoginResponse{
		Token:     tok.Value,
		Username:  h.Sanitizer.EscapeString(id.Username),
		ExpiresAt: tok.ExpiresAt,
	})
}

// Me: echo the bearer's identity.
func (h *AuthHandler) Me(c echo.Context) error {
	name, ok := middleware.Username(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": h.Sanitizer.EscapeString(name)})
}

func (h *AuthHandler) audit(c echo.Context, username, outcome string) {
	if h.Audit == nil {
		return
	}
	h.Audit.Record(queue.LoginEvent{
		Username:  username,
		Outcome:   outcome,
		RemoteIP:  c.RealIP(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
