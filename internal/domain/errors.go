package domain

import "errors"

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTokenNotFound       = errors.New("token not found")
	ErrCommunityNotFound   = errors.New("community config not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidAddress      = errors.New("invalid account address")
	ErrInvalidLanguage     = errors.New("unsupported language")
	ErrCheckoutUnavailable = errors.New("checkout backend unavailable")
)
