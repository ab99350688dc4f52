package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source — происхождение данных о товаре.
type Source string

const (
	SourceReal      Source = "real"
	SourceSynthetic Source = "synthetic"
)

var hundred = decimal.NewFromInt(100)

// Product описывает товар партнёрского каталога.
type Product struct {
	ItemID         string
	Name           string
	Description    string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal // nil, если скидки нет
	ImageURL       string
	ProductURL     string
	CategoryID     string
	CategoryName   string
	Sales          int64
	CommissionRate decimal.Decimal // доля в [0,1]
	RatingStar     decimal.Decimal // [0,5]
	ShopID         string
	ShopName       string
	SubIDs         string // закодированные sub-id, см. pkg/subid
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	Source         Source
}

// DiscountPercent вычисляет скидку в процентах. Значение производное и никогда не хранится.
func (p *Product) DiscountPercent() int64 {
	return DiscountPercent(p.Price, p.OriginalPrice)
}

// DiscountPercent возвращает round((orig-price)/orig*100) при orig > 0, иначе 0.
func DiscountPercent(price decimal.Decimal, orig *decimal.Decimal) int64 {
	if orig == nil || !orig.IsPositive() {
		return 0
	}

	return orig.Sub(price).Div(*orig).Mul(hundred).Round(0).IntPart()
}

// LinkURL возвращает адрес страницы товара или запасной адрес на витрине Shopee.
func (p *Product) LinkURL(fallbackBase string) string {
	if p.ProductURL != "" {
		return p.ProductURL
	}

	return fallbackBase + "/product/" + p.ItemID
}
