package dto

import "time"

// CreateInstrumentRequest adds a ticker to the tracked list.
type CreateInstrumentRequest struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Sector *string `json:"sector,omitempty"`
}

// InstrumentResponse is a tracked instrument.
type InstrumentResponse struct {
	ID        uint      `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Sector    *string   `json:"sector,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
