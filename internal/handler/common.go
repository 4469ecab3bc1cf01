package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/secure-user-api/internal/logger"
	"github.com/iliyamo/secure-user-api/internal/repository"
)

// Timeouts bounds the storage work a single request may do.
type Timeouts struct {
	Request time.Duration
}

// DefaultTimeouts matches the REQUEST_TIMEOUT default.
var DefaultTimeouts = Timeouts{Request: 5 * time.Second}

// storageFailure logs err and answers with a static 5xx body.  The wrapped
// driver detail never reaches the client.
func storageFailure(c echo.Context, log *logger.Logger, op string, err error) error {
	log.Error(op+" failed", "error", err)
	if errors.Is(err, repository.ErrStorageUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func (t Timeouts) request() time.Duration {
	if t.Request <= 0 {
		return DefaultTimeouts.Request
	}
	return t.Request
}
