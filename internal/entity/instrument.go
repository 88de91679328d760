package entity

import (
	"strings"
	"time"
)

// Instrument is a tracked ticker. Instruments are deactivated, never deleted.
type Instrument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"size:20;not null;uniqueIndex" json:"symbol"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Sector    *string   `gorm:"size:100" json:"sector,omitempty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Instrument) TableName() string {
	return "instruments"
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
