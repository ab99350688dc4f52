package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCampaign = "default"

// AffiliateLink — партнёрская ссылка. URL полностью определяется остальными полями.
type AffiliateLink struct {
	UserID     string
	ProductID  string
	CampaignID string
	SubID      string
	URL        string
}

// DecodedSubIds — разобранные sub-id (ключи s1..s5).
type DecodedSubIds struct {
	Affiliate    string
	Analytics    string
	Category     string
	ProductCode  string
	CampaignCode string
}

type EventType string

const (
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
)

// TrackingEvent описывает клик или конверсию по партнёрской ссылке.
type TrackingEvent struct {
	EventID    string
	Type       EventType
	LinkID     string
	UserID     string
	OrderID    string
	OrderValue decimal.Decimal
	OccurredAt time.Time
}

// LinkDailyStats — дневные счётчики ссылки.
type LinkDailyStats struct {
	Day         time.Time
	Clicks      int64
	Conversions int64
	Revenue     decimal.Decimal
}

// LinkStats — сводка по ссылке.
type LinkStats struct {
	LinkID      string
	Clicks      int64
	Conversions int64
	Revenue     decimal.Decimal
	Daily       []LinkDailyStats
}
