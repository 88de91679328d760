package entity

import "time"

// NewsItem is an append-only news record. InstrumentID is nil for general
// market news.
type NewsItem struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	InstrumentID   *uint          `gorm:"index" json:"instrument_id,omitempty"`
	Title          string         `gorm:"not null" json:"title"`
	Content        string         `json:"content"`
	Source         string         `gorm:"size:100" json:"source"`
	URL            string         `json:"url"`
	PublishedAt    *time.Time     `gorm:"index" json:"published_at,omitempty"`
	Sentiment      float64        `json:"sentiment"`
	SentimentLabel SentimentLabel `gorm:"size:20" json:"sentiment_label"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (NewsItem) TableName() string {
	return "news_items"
}
