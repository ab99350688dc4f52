package converter

import (
	"testing"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageConverter_MarksItemsReal(t *testing.T) {
	conv := PageConverterImpl{}
	page := &usecase.CachedPage{
		Items: []domain.Product{{ItemID: "1", Price: decimal.NewFromInt(10), Source: domain.SourceSynthetic}},
		Total: 7,
	}

	got := conv.ToUseCase(conv.ToRedisModel(page))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 7, got.Total)
	assert.Equal(t, domain.SourceReal, got.Items[0].Source)
}
