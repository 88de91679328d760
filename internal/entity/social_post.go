package entity

import "time"

// SocialPost is a forum post mentioning an instrument. PostID is the
// provider's identifier and is unique across all instruments.
type SocialPost struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	InstrumentID   uint           `gorm:"not null;index" json:"instrument_id"`
	Platform       string         `gorm:"size:50;not null" json:"platform"`
	PostID         string         `gorm:"size:100;not null;uniqueIndex" json:"post_id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Author         string         `gorm:"size:100" json:"author"`
	Score          int            `json:"score"`
	CommentsCount  int            `json:"comments_count"`
	PostedAt       *time.Time     `gorm:"index" json:"posted_at,omitempty"`
	Sentiment      float64        `json:"sentiment"`
	SentimentLabel SentimentLabel `gorm:"size:20" json:"sentiment_label"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SocialPost) TableName() string {
	return "social_posts"
}
