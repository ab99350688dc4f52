package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// PageRedisModel — страница каталога в кэше.
type PageRedisModel struct {
	Items []ProductRedisModel `json:"items"`
	Total int                 `json:"total"`
}

type ProductRedisModel struct {
	ItemID         string           `json:"item_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL       string           `json:"image_url,omitempty"`
	ProductURL     string           `json:"product_url,omitempty"`
	CategoryID     string           `json:"category_id"`
	CategoryName   string           `json:"category_name,omitempty"`
	Sales          int64            `json:"sales"`
	CommissionRate decimal.Decimal  `json:"commission_rate"`
	RatingStar     decimal.Decimal  `json:"rating_star"`
	ShopID         string           `json:"shop_id,omitempty"`
	ShopName       string           `json:"shop_name,omitempty"`
	SubIDs         string           `json:"sub_ids,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
}
