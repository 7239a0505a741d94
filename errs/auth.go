package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrExpiredToken = errors.New("expired access token")
	ErrInvalidToken = errors.New("invalid access token")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        errors.New("Please login!"),
		kind:       ErrMissingToken,
		Field:      "authorization",
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        errors.New("Session expired, please login again"),
		kind:       ErrExpiredToken,
		Field:      "authorization",
	}
}

func NewInvalidTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        errors.New("Invalid session, please login again"),
		kind:       ErrInvalidToken,
		Field:      "authorization",
	}
}

func IsMissingToken(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsExpiredToken(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
