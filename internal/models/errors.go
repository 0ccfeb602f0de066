package models

import "errors"

// Custom errors
var (
	ErrPayoutUnresolved  = errors.New("provide american_odds or payout_total")
	ErrNotFound          = errors.New("record not found")
	ErrUnsupportedMarket = errors.New("unsupported market type")
)
