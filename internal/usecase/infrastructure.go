package usecase

import (
	"context"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
)

// EventPublisher публикует события трекинга во внешнюю шину.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.TrackingEvent) error
}

// Metrics — счётчики, которые usecase отдаёт наружу.
type Metrics interface {
	CacheHit(op string)
	CacheMiss(op string)
	Fallback(op, reason string)
	TrackingFailure(kind string)
}

type nopMetrics struct{}

func (nopMetrics) CacheHit(string)         {}
func (nopMetrics) CacheMiss(string)        {}
func (nopMetrics) Fallback(string, string) {}
func (nopMetrics) TrackingFailure(string)  {}
