package models

import "time"

// SavedStrategy is a named set of legs kept in the strategy store.
type SavedStrategy struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Legs      []OptionLeg `json:"legs"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Quote is the latest known price of an underlying.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Source        string    `json:"source"`
	FetchedAt     time.Time `json:"fetched_at"`
}
