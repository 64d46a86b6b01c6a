package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
)

type exchangeHoyolabRequest struct {
	UID     int64  `json:"uid"`
	LtUID   int64  `json:"ltuid"`
	LToken  string `json:"ltoken"`
	LCookie string `json:"lcookie"`
	LMID    string `json:"lmid"`
}

type exchangeMihomoRequest struct {
	UID int64 `json:"uid"`
}

// exchangeResponse carries the issued token in the data field of the shared
// envelope shape, the same layout the error paths use.
type exchangeResponse struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
	Data    string        `json:"data"`
}

// exchangeHoyolab verifies a HoYoLAB credential bundle and issues a token.
func (s *Server) exchangeHoyolab(c echo.Context) error {
	var req exchangeHoyolabRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, apperror.BadRequest(apperror.CodeMissingUIDToken, "invalid request body"))
	}

	hasAuth := req.LToken != "" || req.LCookie != ""
	switch {
	case req.UID == 0 && !hasAuth:
		return s.respondError(c, apperror.BadRequest(apperror.CodeMissingUIDToken, "missing uid and token"))
	case req.UID == 0:
		return s.respondError(c, apperror.BadRequest(apperror.CodeMissingUID, "missing uid"))
	case !hasAuth:
		return s.respondError(c, apperror.BadRequest(apperror.CodeMissingToken, "missing ltoken or lcookie"))
	}

	rec := &transaction.Hoyolab{
		UID:     req.UID,
		LtUID:   req.LtUID,
		LToken:  req.LToken,
		LCookie: req.LCookie,
		LMID:    req.LMID,
	}
	token, err := s.exchangeSvc.ExchangeHoyolab(c.Request().Context(), rec)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, exchangeResponse{Code: apperror.CodeSuccess, Message: "Success", Data: token})
}

// exchangeMihomo captures a showcase snapshot for uid and issues a token.
func (s *Server) exchangeMihomo(c echo.Context) error {
	var req exchangeMihomoRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, apperror.BadRequest(apperror.CodeMissingUID, "invalid request body"))
	}
	if req.UID == 0 {
		return s.respondError(c, apperror.BadRequest(apperror.CodeMissingUID, "missing uid"))
	}

	token, err := s.exchangeSvc.ExchangeMihomo(c.Request().Context(), req.UID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, exchangeResponse{Code: apperror.CodeSuccess, Message: "Success", Data: token})
}
