package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
)

// mihomoProfile renders one showcased character, selected by the 1-based
// character query param (default 1).
func (s *Server) mihomoProfile(c echo.Context) error {
	index := 1
	if raw := c.QueryParam("character"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return s.respondError(c, apperror.BadRequest(apperror.CodeInvalidIndex, "invalid character provided: %s", raw))
		}
		index = v
	}
	detailed := false
	if raw := c.QueryParam("detailed"); raw != "" {
		detailed, _ = strconv.ParseBool(raw)
	}

	artifact, err := s.mihomoSvc.CharacterCard(c.Request().Context(), c.QueryParam("uid"), c.QueryParam("token"), index, detailed, c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondPNG(c, artifact)
}

func (s *Server) mihomoPlayer(c echo.Context) error {
	artifact, err := s.mihomoSvc.PlayerCard(c.Request().Context(), c.QueryParam("uid"), c.QueryParam("token"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondPNG(c, artifact)
}

func (s *Server) mihomoPlayerInfo(c echo.Context) error {
	artifact, err := s.mihomoSvc.PlayerInfo(c.Request().Context(), c.QueryParam("uid"), c.QueryParam("token"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondInfo(c, artifact)
}
