package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/naotimes/qingque-api/internal/application/services"
	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
)

// errorEnvelope is the JSON body of every non-2xx response.
type errorEnvelope struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
	Data    any           `json:"data,omitempty"`
	Detail  string        `json:"detail,omitempty"`
}

// respondError maps any failure onto the stable envelope. Causes are only
// leaked into the body when error details are enabled.
func (s *Server) respondError(c echo.Context, err error) error {
	ae := apperror.From(err)

	body := errorEnvelope{Code: ae.Code, Message: ae.Message, Data: ae.Data}
	if s.config.ShowErrorDetails {
		if cause := ae.Unwrap(); cause != nil {
			body.Detail = cause.Error()
		}
	}

	entry := s.logger.WithFields(map[string]any{
		"code":   ae.Code,
		"status": ae.Status,
		"path":   c.Request().URL.Path,
	})
	if ae.Status >= http.StatusInternalServerError {
		entry.WithError(ae).Error("request failed")
	} else {
		entry.Warn(ae.Message)
	}

	return c.JSON(ae.Status, body)
}

// respondPNG serves a rendered card. HEAD requests get the headers without
// the body; the artifact is generated either way so the cache warms up.
func (s *Server) respondPNG(c echo.Context, artifact *services.Artifact) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", artifact.Filename))
	h.Set("Cache-Control", fmt.Sprintf("max-age=%d, must-revalidate", int(artifact.TTL.Seconds())))

	if c.Request().Method == http.MethodHead {
		h.Set(echo.HeaderContentType, "image/png")
		h.Set(echo.HeaderContentLength, strconv.Itoa(len(artifact.Data)))
		return c.NoContent(http.StatusOK)
	}
	return c.Blob(http.StatusOK, "image/png", artifact.Data)
}

// respondInfo serves a cached raw JSON payload produced by an info pipeline.
func (s *Server) respondInfo(c echo.Context, artifact *services.Artifact) error {
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("max-age=%d, must-revalidate", int(artifact.TTL.Seconds())))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, artifact.Data)
}

// nocacheParam reads the regeneration flag; any parseable truthy value counts.
func nocacheParam(c echo.Context) bool {
	raw := c.QueryParam("nocache")
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
