package model

import "time"

// Link - запись, хранимая в KV-хранилище под коротким кодом.
type Link struct {
	OriginalURL string     `json:"originalUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClickCount  int64      `json:"clickCount"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the record is logically expired, independent
// of whether the store has physically evicted the key yet.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

type ShortenRequest struct {
	URL            string `json:"url" binding:"required"`
	Alias          string `json:"alias,omitempty"`
	ExpirationDays int    `json:"expirationDays,omitempty"`
}

type ShortenResponse struct {
	Code     string `json:"code"`
	ShortURL string `json:"shortUrl"`
}

// StatsResponse is a read-only projection of a Link. ExpiresAt is
// serialized as null (not omitted) when the link never expires.
type StatsResponse struct {
	Code        string     `json:"code"`
	OriginalURL string     `json:"originalUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClickCount  int64      `json:"clickCount"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}
