package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name  string
		price decimal.Decimal
		orig  *decimal.Decimal
		want  int64
	}{
		{name: "rounds down", price: dec("1299.99"), orig: decPtr("1899.99"), want: 32},
		{name: "rounds half up", price: dec("87.5"), orig: decPtr("100"), want: 13},
		{name: "tiny discount", price: dec("99.9"), orig: decPtr("100"), want: 0},
		{name: "no original price", price: dec("10"), orig: nil, want: 0},
		{name: "zero original price", price: dec("10"), orig: decPtr("0"), want: 0},
		{name: "negative original price", price: dec("10"), orig: decPtr("-5"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(tt.price, tt.orig))
		})
	}
}

func TestDiscountPercent_RangeForRealDiscounts(t *testing.T) {
	for price := int64(1); price < 200; price += 7 {
		p := Product{Price: decimal.NewFromInt(price), OriginalPrice: decPtr("200")}
		got := p.DiscountPercent()
		assert.GreaterOrEqual(t, got, int64(0))
		assert.Less(t, got, int64(100))
	}
}

func TestProduct_LinkURL(t *testing.T) {
	p := Product{ItemID: "42"}
	assert.Equal(t, "https://shope.ee/product/42", p.LinkURL("https://shope.ee"))

	p.ProductURL = "https://shopee.com.br/item/42"
	assert.Equal(t, "https://shopee.com.br/item/42", p.LinkURL("https://shope.ee"))
}

func TestPlaceholderCategory(t *testing.T) {
	c := PlaceholderCategory("77")
	assert.Equal(t, "77", c.ID)
	assert.Equal(t, "Category 77", c.Name)
}
