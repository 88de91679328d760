package dto

import "time"

// PriceBarData is a daily bar as returned by a price provider.
type PriceBarData struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// IndexQuote is the latest level of a market index.
type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// MarketOverview maps index display name (e.g. "S&P 500") to its quote.
type MarketOverview map[string]IndexQuote

// NewsArticle is a news item before sentiment scoring.
type NewsArticle struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SocialPostData is a forum post before sentiment scoring.
type SocialPostData struct {
	Platform      string     `json:"platform"`
	PostID        string     `json:"post_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Author        string     `json:"author"`
	Score         int        `json:"score"`
	CommentsCount int        `json:"comments_count"`
	PostedAt      *time.Time `json:"posted_at,omitempty"`
	URL           string     `json:"url"`
}
