package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
)

// SecretHeader carries the shared secret that gates the raw-data info routes
// when strict mode is on.
const SecretHeader = "X-Qingque-Secret"

// StrictMiddleware gates routes behind a shared secret. An empty configured
// secret disables the gate entirely.
type StrictMiddleware struct {
	secret []byte
	logger *logrus.Logger
}

func NewStrictMiddleware(secret string, logger *logrus.Logger) *StrictMiddleware {
	return &StrictMiddleware{secret: []byte(secret), logger: logger}
}

// rejection mirrors the handler-level error envelope so strict-mode refusals
// look like every other failure on the wire.
type rejection struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

// RequireSecret rejects requests whose secret header does not match. The
// comparison is constant-time.
func (m *StrictMiddleware) RequireSecret() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(m.secret) == 0 {
				return next(c)
			}
			provided := []byte(c.Request().Header.Get(SecretHeader))
			if subtle.ConstantTimeCompare(provided, m.secret) != 1 {
				if m.logger != nil {
					m.logger.WithField("path", c.Request().URL.Path).Warn("strict mode rejected request")
				}
				return c.JSON(http.StatusForbidden, rejection{
					Code:    apperror.CodeInvalidSecret,
					Message: "invalid secret provided",
				})
			}
			return next(c)
		}
	}
}
