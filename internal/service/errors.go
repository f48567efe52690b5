package service

import "errors"

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidSlug     = errors.New("invalid quiz slug")
)
