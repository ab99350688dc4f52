package http

import (
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/shopspring/decimal"
)

// REQUESTS

type BuildLinkRequest struct {
	UserID     string `json:"user_id" validate:"required,max=128"`
	ProductID  string `json:"product_id" validate:"required,max=128"`
	CampaignID string `json:"campaign_id" validate:"omitempty,max=64"`
	SubID      string `json:"sub_id" validate:"omitempty,max=256"`
}

type BulkLinkItemRequest struct {
	ProductID string `json:"product_id" validate:"max=128"`
	SubID     string `json:"sub_id" validate:"omitempty,max=256"`
}

// BulkLinkRequest: пустой product_id в элементе считается ошибкой элемента, а не запроса.
type BulkLinkRequest struct {
	UserID     string                `json:"user_id" validate:"required,max=128"`
	CampaignID string                `json:"campaign_id" validate:"omitempty,max=64"`
	SubID      string                `json:"sub_id" validate:"omitempty,max=256"`
	Items      []BulkLinkItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

type ClickRequest struct {
	UserID string `json:"user_id" validate:"omitempty,max=128"`
}

type ConversionRequest struct {
	OrderID    string           `json:"order_id" validate:"omitempty,max=128"`
	OrderValue *decimal.Decimal `json:"order_value" validate:"required"`
}

type IngestProductRequest struct {
	ItemID         string           `json:"item_id" validate:"required,max=64"`
	Name           string           `json:"name" validate:"required,max=512"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price" validate:"required"`
	OriginalPrice  *decimal.Decimal `json:"original_price"`
	ImageURL       string           `json:"image_url" validate:"omitempty,url"`
	ProductURL     string           `json:"product_url" validate:"omitempty,url"`
	CategoryID     string           `json:"category_id" validate:"max=64"`
	CategoryName   string           `json:"category_name" validate:"max=128"`
	Sales          int64            `json:"sales" validate:"gte=0"`
	CommissionRate decimal.Decimal  `json:"commission_rate"`
	RatingStar     decimal.Decimal  `json:"rating_star"`
	ShopID         string           `json:"shop_id"`
	ShopName       string           `json:"shop_name"`
	SubIDs         string           `json:"sub_ids"`
}

// RESPONSES

type ProductResponse struct {
	ItemID            string           `json:"item_id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	OriginalPrice     *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent   int64            `json:"discount_percent"`
	ImageURL          string           `json:"image_url,omitempty"`
	ProductURL        string           `json:"product_url"`
	CategoryID        string           `json:"category_id"`
	CategoryName      string           `json:"category_name,omitempty"`
	EffectiveCategory string           `json:"effective_category"`
	Sales             int64            `json:"sales"`
	CommissionRate    decimal.Decimal  `json:"commission_rate"`
	RatingStar        decimal.Decimal  `json:"rating_star"`
	ShopID            string           `json:"shop_id,omitempty"`
	ShopName          string           `json:"shop_name,omitempty"`
	Source            domain.Source    `json:"source"`
}

type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Count  int               `json:"count"`
	Source domain.Source     `json:"source"`
}

type SearchResponse struct {
	Items  []ProductResponse `json:"items"`
	Count  int               `json:"count"`
	Term   string            `json:"term"`
	Source domain.Source     `json:"source"`
}

type CategoryProductsResponse struct {
	Category domain.Category   `json:"category"`
	Items    []ProductResponse `json:"items"`
	Count    int               `json:"count"`
	Source   domain.Source     `json:"source"`
}

type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
	Count      int               `json:"count"`
}

type FilterResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int               `json:"total"`
	Page   int               `json:"page"`
	Limit  int               `json:"limit"`
	Source domain.Source     `json:"source"`
}

type ShowcaseResponse struct {
	Popular          []ProductResponse `json:"popular"`
	TopRated         []ProductResponse `json:"top_rated"`
	BiggestDiscounts []ProductResponse `json:"biggest_discounts"`
	Source           domain.Source     `json:"source"`
}

type LinkResponse struct {
	UserID     string `json:"user_id"`
	ProductID  string `json:"product_id"`
	CampaignID string `json:"campaign_id"`
	SubID      string `json:"sub_id"`
	URL        string `json:"url"`
}

type BulkLinkResultResponse struct {
	ProductID string        `json:"product_id"`
	Success   bool          `json:"success"`
	Link      *LinkResponse `json:"link,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type BulkLinksResponse struct {
	TotalProcessed int                      `json:"total_processed"`
	SuccessCount   int                      `json:"success_count"`
	ErrorCount     int                      `json:"error_count"`
	Results        []BulkLinkResultResponse `json:"results"`
}

type DailyStatsResponse struct {
	Day         string          `json:"day"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type LinkStatsResponse struct {
	LinkID      string               `json:"link_id"`
	Clicks      int64                `json:"clicks"`
	Conversions int64                `json:"conversions"`
	Revenue     decimal.Decimal      `json:"revenue"`
	Daily       []DailyStatsResponse `json:"daily"`
}

type AcceptedResponse struct {
	Status string `json:"status"`
}

// MAPPING

func toLinkResponse(link *domain.AffiliateLink) *LinkResponse {
	return &LinkResponse{
		UserID:     link.UserID,
		ProductID:  link.ProductID,
		CampaignID: link.CampaignID,
		SubID:      link.SubID,
		URL:        link.URL,
	}
}

func toBulkLinksResponse(res *usecase.BulkLinksRes) *BulkLinksResponse {
	out := &BulkLinksResponse{
		TotalProcessed: res.TotalProcessed,
		SuccessCount:   res.SuccessCount,
		ErrorCount:     res.ErrorCount,
		Results:        make([]BulkLinkResultResponse, 0, len(res.Results)),
	}

	for _, r := range res.Results {
		item := BulkLinkResultResponse{ProductID: r.ProductID, Success: r.Err == nil}
		if r.Err != nil {
			_, item.Error = ToHTTPResponse(r.Err)
		} else {
			item.Link = toLinkResponse(r.Link)
		}
		out.Results = append(out.Results, item)
	}

	return out
}

func toLinkStatsResponse(stats *domain.LinkStats) *LinkStatsResponse {
	out := &LinkStatsResponse{
		LinkID:      stats.LinkID,
		Clicks:      stats.Clicks,
		Conversions: stats.Conversions,
		Revenue:     stats.Revenue,
		Daily:       make([]DailyStatsResponse, 0, len(stats.Daily)),
	}

	for _, d := range stats.Daily {
		out.Daily = append(out.Daily, DailyStatsResponse{
			Day:         d.Day.Format(time.DateOnly),
			Clicks:      d.Clicks,
			Conversions: d.Conversions,
			Revenue:     d.Revenue,
		})
	}

	return out
}

func (r *IngestProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		ItemID:         r.ItemID,
		Name:           r.Name,
		Description:    r.Description,
		Price:          *r.Price,
		OriginalPrice:  r.OriginalPrice,
		ImageURL:       r.ImageURL,
		ProductURL:     r.ProductURL,
		CategoryID:     r.CategoryID,
		CategoryName:   r.CategoryName,
		Sales:          r.Sales,
		CommissionRate: r.CommissionRate,
		RatingStar:     r.RatingStar,
		ShopID:         r.ShopID,
		ShopName:       r.ShopName,
		SubIDs:         r.SubIDs,
	}
}
