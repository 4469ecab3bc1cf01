package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/secure-user-api/internal/logger"
	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/repository"
	"github.com/iliyamo/secure-user-api/internal/sanitize"
	"github.com/iliyamo/secure-user-api/internal/service"
)

// dataMessage is the fixed /data message; it is still passed through the
// sanitizer like every other outbound string.
const dataMessage = "List of users retrieved successfully"

// UserHandler serves the authenticated read endpoints.
type UserHandler struct {
	Users     *service.UserService
	Sanitizer *sanitize.Sanitizer
	Log       *logger.Logger
	Timeouts  Timeouts
}

func NewUserHandler(u *service.UserService, s *sanitize.Sanitizer, log *logger.Logger, to Timeouts) *UserHandler {
	return &UserHandler{Users: u, Sanitizer: s, Log: log, Timeouts: to}
}

// GetUser returns one sanitized user by numeric id.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeouts.request())
	defer cancel()

	v, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return storageFailure(c, h.Log, "get user", err)
	}
	return c.JSON(http.StatusOK, v)
}

// GetData lists every user with a count.
func (h *UserHandler) GetData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeouts.request())
	defer cancel()

	users, err := h.Users.GetAll(ctx)
	if err != nil {
		return storageFailure(c, h.Log, "list users", err)
	}
	return c.JSON(http.StatusOK, model.NewDataResponse(h.Sanitizer.EscapeString(dataMessage), users))
}
