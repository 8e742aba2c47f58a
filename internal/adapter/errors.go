package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("account is not allowed to sync")
	ErrNotFound            = errors.New("not found")
	ErrRequestTooLarge     = errors.New("request too large")
	ErrInternalServerError = errors.New("internal server error")
	ErrServiceUnavailable  = errors.New("service unavailable")

	ErrEmptyAddress = errors.New("empty server address")
	ErrEmptyToken   = errors.New("empty token")
)
