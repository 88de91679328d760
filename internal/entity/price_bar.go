package entity

import "time"

// PriceBar is one daily OHLCV bar. (InstrumentID, Date) is unique and a
// second write for the same day overwrites the first.
type PriceBar struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InstrumentID uint      `gorm:"not null;uniqueIndex:idx_price_history_instrument_date" json:"instrument_id"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_price_history_instrument_date" json:"date"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `gorm:"not null" json:"close"`
	Volume       int64     `json:"volume"`
}

func (PriceBar) TableName() string {
	return "price_history"
}
