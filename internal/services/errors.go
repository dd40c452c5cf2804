package services

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotNavigating   = errors.New("session is not navigating")
	ErrUnknownLanguage = errors.New("unknown speech language")
)
