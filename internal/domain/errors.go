package domain

import "errors"

var (
	ErrBasketNotFound       = errors.New("basket not found")
	ErrCertificateNotFound  = errors.New("gift certificate not found")
	ErrLineItemNotFound     = errors.New("certificate line item not found")
	ErrInstrumentNotFound   = errors.New("payment instrument not found")
	ErrInsufficientCoverage = errors.New("gift certificates do not cover the order total")
	ErrCertificateDepleted  = errors.New("gift certificate balance depleted")
	ErrPlacementFailed      = errors.New("order placement failed")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrInvalidAmount        = errors.New("amount must be a valid decimal greater than zero")
)
