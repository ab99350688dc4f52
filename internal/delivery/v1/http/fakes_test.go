package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	products   []domain.Product
	categories []domain.Category
	source     domain.Source
	err        error

	lastPage     usecase.Page
	lastOpts     usecase.ReadOptions
	lastFilter   usecase.Filter
	lastTrending usecase.TrendingReq
	lastTerm     string
	ingested     *domain.Product
}

func (f *fakeCatalog) GetCategories(context.Context) []domain.Category {
	return f.categories
}

func (f *fakeCatalog) GetProducts(_ context.Context, page usecase.Page, opts usecase.ReadOptions) (*usecase.ProductPage, error) {
	f.lastPage, f.lastOpts = page, opts
	if f.err != nil {
		return nil, f.err
	}
	return usecase.NewProductPage(f.products, f.source), nil
}

func (f *fakeCatalog) SearchProducts(_ context.Context, term string, _ int, _ usecase.ReadOptions) (*usecase.SearchResult, error) {
	f.lastTerm = term
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.SearchResult{Items: f.products, Count: len(f.products), Term: term, Source: f.source}, nil
}

func (f *fakeCatalog) FilterProducts(_ context.Context, flt usecase.Filter, _ usecase.ReadOptions) (*usecase.FilterResult, error) {
	f.lastFilter = flt
	if f.err != nil {
		return nil, f.err
	}
	flt = flt.Normalize()
	return &usecase.FilterResult{Items: f.products, Total: len(f.products), Page: flt.Page, Limit: flt.Limit, Source: f.source}, nil
}

func (f *fakeCatalog) BrowseCategory(_ context.Context, categoryID string, page usecase.Page, _ usecase.ReadOptions) (*usecase.CategoryPage, error) {
	f.lastPage = page
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.CategoryPage{Items: f.products, Count: len(f.products), CategoryInfo: domain.PlaceholderCategory(categoryID), Source: f.source}, nil
}

func (f *fakeCatalog) GetShowcase(context.Context, usecase.ReadOptions) (*usecase.Showcase, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.Showcase{Popular: f.products, TopRated: f.products, BiggestDiscounts: f.products, Source: f.source}, nil
}

func (f *fakeCatalog) Recommendations(_ context.Context, _ string, _ int) (*usecase.ProductPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return usecase.NewProductPage(f.products, f.source), nil
}

func (f *fakeCatalog) Trending(_ context.Context, req usecase.TrendingReq) (*usecase.ProductPage, error) {
	f.lastTrending = req
	if f.err != nil {
		return nil, f.err
	}
	return usecase.NewProductPage(f.products, f.source), nil
}

func (f *fakeCatalog) IngestProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.ingested = product
	return product, nil
}

func (f *fakeCatalog) AdjustCategory(product *domain.Product) string {
	if product.CategoryName != "" {
		return product.CategoryName
	}
	return usecase.UncategorizedCategory
}

type fakeAffiliate struct {
	err         error
	clicks      []string
	conversions []decimal.Decimal
	stats       *domain.LinkStats
}

func (f *fakeAffiliate) BuildLink(req usecase.BuildLinkReq) (*domain.AffiliateLink, error) {
	return &domain.AffiliateLink{
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		CampaignID: req.CampaignID,
		SubID:      req.SubID,
		URL:        "https://shope.ee/affiliate/" + req.UserID + "/" + req.ProductID,
	}, nil
}

func (f *fakeAffiliate) BuildBulk(userID string, items []usecase.BulkLinkItem, campaignID, subID string) *usecase.BulkLinksRes {
	res := &usecase.BulkLinksRes{TotalProcessed: len(items)}
	for _, it := range items {
		if it.ProductID == "" {
			res.ErrorCount++
			res.Results = append(res.Results, usecase.BulkLinkResult{Err: e.Wrap("AffiliateUseCase.BuildLink", e.ErrProductIDRequired)})
			continue
		}
		link, _ := f.BuildLink(usecase.BuildLinkReq{UserID: userID, ProductID: it.ProductID, CampaignID: campaignID, SubID: subID})
		res.SuccessCount++
		res.Results = append(res.Results, usecase.BulkLinkResult{ProductID: it.ProductID, Link: link})
	}
	return res
}

func (f *fakeAffiliate) TrackClick(_ context.Context, linkID, _ string) error {
	f.clicks = append(f.clicks, linkID)
	return nil
}

func (f *fakeAffiliate) RecordConversion(_ context.Context, _ string, _ string, value decimal.Decimal) error {
	if f.err != nil {
		return f.err
	}
	f.conversions = append(f.conversions, value)
	return nil
}

func (f *fakeAffiliate) Stats(_ context.Context, linkID string) (*domain.LinkStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &domain.LinkStats{LinkID: linkID}, nil
}

type fakeMetrics struct{}

func (fakeMetrics) Middleware(next http.Handler) http.Handler { return next }

func (fakeMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics"))
	})
}
