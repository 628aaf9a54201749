// Package models provides domain models for the strategy builder.
package models

// Exchange identifies the venue an underlying is quoted on.
type Exchange string

const (
	NSE    Exchange = "NSE"
	BSE    Exchange = "BSE"
	NFO    Exchange = "NFO" // F&O
	NASDAQ Exchange = "NASDAQ"
	NYSE   Exchange = "NYSE"
)

// Instrument returns the "EXCHANGE:SYMBOL" key used by Kite quote endpoints.
func (e Exchange) Instrument(symbol string) string {
	return string(e) + ":" + symbol
}
