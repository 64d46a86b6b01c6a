package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
)

// indexParam parses a 1-based numeric path segment. Non-numeric input gets
// the same code as an out-of-bound index so clients see one failure mode.
func indexParam(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.BadRequest(apperror.CodeInvalidIndex, "invalid %s provided: %s", name, raw)
	}
	return v, nil
}

func (s *Server) hoyolabChronicles(c echo.Context) error {
	artifact, err := s.hoyolabSvc.ChroniclesCard(c.Request().Context(), c.QueryParam("token"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondPNG(c, artifact)
}

func (s *Server) hoyolabCharacters(c echo.Context) error {
	artifact, err := s.hoyolabSvc.CharactersCard(c.Request().Context(), c.QueryParam("token"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondPNG(c, artifact)
}

func (s *Server) hoyolabSimUniverse(c echo.Context) error {
	index, err := indexParam(c, "index")
	if err != nil {
		return s.respondError(c, err)
	}
	artifact, err := s.hoyolabSvc.SimUniverseCard(c.Request().Context(), c.QueryParam("token"), c.Param("kind"), index, c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondPNG(c, artifact)
}

func (s *Server) hoyolabMoC(c echo.Context) error {
	floor, err := indexParam(c, "floor")
	if err != nil {
		return s.respondError(c, err)
	}
	artifact, err := s.hoyolabSvc.MoCCard(c.Request().Context(), c.QueryParam("token"), c.Param("kind"), floor, c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondPNG(c, artifact)
}

func (s *Server) hoyolabChroniclesInfo(c echo.Context) error {
	artifact, err := s.hoyolabSvc.ChroniclesInfo(c.Request().Context(), c.QueryParam("token"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondInfo(c, artifact)
}

func (s *Server) hoyolabCharactersInfo(c echo.Context) error {
	artifact, err := s.hoyolabSvc.CharactersInfo(c.Request().Context(), c.QueryParam("token"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondInfo(c, artifact)
}

func (s *Server) hoyolabSimUniverseInfo(c echo.Context) error {
	artifact, err := s.hoyolabSvc.SimUniverseInfo(c.Request().Context(), c.QueryParam("token"), c.Param("kind"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondInfo(c, artifact)
}

func (s *Server) hoyolabMoCInfo(c echo.Context) error {
	artifact, err := s.hoyolabSvc.MoCInfo(c.Request().Context(), c.QueryParam("token"), c.Param("kind"), c.QueryParam("lang"), nocacheParam(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.respondInfo(c, artifact)
}
