package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID             int64               `db:"id"`
	ItemID         string              `db:"item_id"`
	Name           string              `db:"name"`
	Description    string              `db:"description"`
	Price          decimal.Decimal     `db:"price"`
	OriginalPrice  decimal.NullDecimal `db:"original_price"`
	ImageURL       string              `db:"image_url"`
	ProductURL     string              `db:"product_url"`
	CategoryID     string              `db:"category_id"`
	CategoryName   string              `db:"category_name"`
	Sales          int64               `db:"sales"`
	CommissionRate decimal.Decimal     `db:"commission_rate"`
	RatingStar     decimal.Decimal     `db:"rating_star"`
	ShopID         string              `db:"shop_id"`
	ShopName       string              `db:"shop_name"`
	SubIDs         string              `db:"sub_ids"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      *time.Time          `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Level     int       `db:"level"`
	Icon      *string   `db:"icon"`
	CreatedAt time.Time `db:"created_at"`
}

// LinkDailyStatsModel представляет запись таблицы link_daily_stats в PostgreSQL.
type LinkDailyStatsModel struct {
	LinkID      string          `db:"link_id"`
	Day         time.Time       `db:"day"`
	Clicks      int64           `db:"clicks"`
	Conversions int64           `db:"conversions"`
	Revenue     decimal.Decimal `db:"revenue"`
}
