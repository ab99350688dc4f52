package usecase

import (
	"context"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

type CatalogUC interface {
	GetCategories(ctx context.Context) []domain.Category
	GetProducts(ctx context.Context, page Page, opts ReadOptions) (*ProductPage, error)
	SearchProducts(ctx context.Context, term string, limit int, opts ReadOptions) (*SearchResult, error)
	FilterProducts(ctx context.Context, f Filter, opts ReadOptions) (*FilterResult, error)
	BrowseCategory(ctx context.Context, categoryID string, page Page, opts ReadOptions) (*CategoryPage, error)
	GetShowcase(ctx context.Context, opts ReadOptions) (*Showcase, error)
	Recommendations(ctx context.Context, productID string, limit int) (*ProductPage, error)
	Trending(ctx context.Context, req TrendingReq) (*ProductPage, error)
	IngestProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	AdjustCategory(product *domain.Product) string
}

type AffiliateUC interface {
	BuildLink(req BuildLinkReq) (*domain.AffiliateLink, error)
	BuildBulk(userID string, items []BulkLinkItem, campaignID, subID string) *BulkLinksRes
	TrackClick(ctx context.Context, linkID, userID string) error
	RecordConversion(ctx context.Context, linkID, orderID string, orderValue decimal.Decimal) error
	Stats(ctx context.Context, linkID string) (*domain.LinkStats, error)
}
