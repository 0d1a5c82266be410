package impl

import "errors"

var (
	ErrEmptyCode      = errors.New("empty confirmation code")
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidSubject = errors.New("invalid token subject")
)
