package subid

import (
	"testing"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []domain.DecodedSubIds{
		{Affiliate: "aff1", Analytics: "ga", Category: "categoria_3", ProductCode: "p-9", CampaignCode: "summer"},
		{Affiliate: "only-affiliate"},
		{Category: "cel", CampaignCode: "black\"friday"},
		{Analytics: "ünïcødé", ProductCode: "{\"s1\":1}"},
	}

	for _, want := range cases {
		assert.Equal(t, want, Decode(Encode(want)))
	}
}

func TestEncode_OmitsEmptyKeys(t *testing.T) {
	assert.Equal(t, `{"s1":"a","s5":"c"}`, Encode(domain.DecodedSubIds{Affiliate: "a", CampaignCode: "c"}))
	assert.Equal(t, `{}`, Encode(domain.DecodedSubIds{}))
}

func TestDecode_IsTotal(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"null",
		"not json",
		"{",
		"[1,2,3]",
		`"s1"`,
		`42`,
		`{"s1": 5, "s2": null, "s3": ["x"]}`,
	}

	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			assert.Equal(t, domain.DecodedSubIds{}, Decode(raw), raw)
		})
	}
}

func TestDecode_IgnoresUnknownAndMistypedKeys(t *testing.T) {
	got := Decode(`{"s1":"aff","s2":7,"s3":"categoria_5","extra":"x"}`)

	assert.Equal(t, domain.DecodedSubIds{Affiliate: "aff", Category: "categoria_5"}, got)
}

func TestCategoryHint(t *testing.T) {
	hint, ok := CategoryHint(domain.DecodedSubIds{Category: "categoria_12"})
	assert.True(t, ok)
	assert.Equal(t, "12", hint)

	hint, ok = CategoryHint(domain.DecodedSubIds{Category: "Moda"})
	assert.True(t, ok)
	assert.Equal(t, "Moda", hint)

	_, ok = CategoryHint(domain.DecodedSubIds{Category: "categoria_"})
	assert.False(t, ok)

	_, ok = CategoryHint(domain.DecodedSubIds{})
	assert.False(t, ok)
}
