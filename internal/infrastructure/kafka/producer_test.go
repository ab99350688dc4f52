package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Click(t *testing.T) {
	data, err := Payload(&domain.TrackingEvent{
		EventID:    "e1",
		Type:       domain.EventClick,
		LinkID:     "link-1",
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_id":"e1","type":"click","link_id":"link-1","occurred_at":"2024-05-01T12:00:00Z"}`, string(data))
}

func TestPayload_ConversionCarriesValue(t *testing.T) {
	data, err := Payload(&domain.TrackingEvent{
		EventID:    "e2",
		Type:       domain.EventConversion,
		LinkID:     "link-1",
		OrderID:    "o1",
		OrderValue: decimal.Zero,
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_value":"0"`)
	assert.Contains(t, string(data), `"order_id":"o1"`)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(logger.NewNopLogger())
	assert.NoError(t, p.Publish(context.Background(), &domain.TrackingEvent{EventID: "e1"}))
}
