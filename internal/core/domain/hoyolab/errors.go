package hoyolab

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three credential-class rejections the chronicle API
// returns. Orchestrators map each to a distinct client-facing error code
// instead of branching on retcode values.
var (
	ErrAccountNotFound = errors.New("hoyolab: account not found")
	ErrDataNotPublic   = errors.New("hoyolab: battle chronicle is not public")
	ErrInvalidCookies  = errors.New("hoyolab: invalid cookies or token")
)

// APIError is any other non-zero retcode from the chronicle API.
type APIError struct {
	Retcode int
	Msg     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hoyolab: api error %d: %s", e.Retcode, e.Msg)
}

// ErrorFromRetcode converts an upstream retcode into the typed taxonomy.
// Returns nil for retcode 0.
func ErrorFromRetcode(retcode int, msg string) error {
	switch retcode {
	case 0:
		return nil
	case 1009:
		return ErrAccountNotFound
	case 10102:
		return ErrDataNotPublic
	case -100, 10001, 10103:
		return ErrInvalidCookies
	default:
		return &APIError{Retcode: retcode, Msg: msg}
	}
}
