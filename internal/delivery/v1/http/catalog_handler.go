package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
	fallbackURL    string
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger, fallbackURL string) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		logger:         logger,
		fallbackURL:    strings.TrimRight(fallbackURL, "/"),
	}
}

// getCategories GET /categories
func (c *CatalogHandler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories := c.catalogUsecase.GetCategories(r.Context())

	WriteSuccess(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
		Count:      len(categories),
	})
}

// getProducts GET /products?limit=&offset=
func (c *CatalogHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	page, err := c.catalogUsecase.GetProducts(r.Context(), parsePage(r), readOptions(r))
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, c.toListResponse(page))
}

// searchProducts GET /search?q=&limit=
func (c *CatalogHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalogUsecase.SearchProducts(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"), readOptions(r))
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SearchResponse{
		Items:  c.toProducts(res.Items),
		Count:  res.Count,
		Term:   res.Term,
		Source: res.Source,
	})
}

// filterProducts GET /products/search?keyword=&category=&minPrice=&maxPrice=&minCommission=&sortBy=&order=&page=&limit=
func (c *CatalogHandler) filterProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	res, err := c.catalogUsecase.FilterProducts(r.Context(), filter, readOptions(r))
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, FilterResponse{
		Items:  c.toProducts(res.Items),
		Total:  res.Total,
		Page:   res.Page,
		Limit:  res.Limit,
		Source: res.Source,
	})
}

// getCategoryProducts GET /categories/{id}/products?limit=&offset=
func (c *CatalogHandler) getCategoryProducts(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalogUsecase.BrowseCategory(r.Context(), chi.URLParam(r, "id"), parsePage(r), readOptions(r))
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, CategoryProductsResponse{
		Category: res.CategoryInfo,
		Items:    c.toProducts(res.Items),
		Count:    res.Count,
		Source:   res.Source,
	})
}

// getShowcase GET /showcase
func (c *CatalogHandler) getShowcase(w http.ResponseWriter, r *http.Request) {
	showcase, err := c.catalogUsecase.GetShowcase(r.Context(), readOptions(r))
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ShowcaseResponse{
		Popular:          c.toProducts(showcase.Popular),
		TopRated:         c.toProducts(showcase.TopRated),
		BiggestDiscounts: c.toProducts(showcase.BiggestDiscounts),
		Source:           showcase.Source,
	})
}

// getRecommendations GET /products/{id}/recommendations?limit=
func (c *CatalogHandler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	page, err := c.catalogUsecase.Recommendations(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit"))
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, c.toListResponse(page))
}

// getTrending GET /products/trending?minSales=&limit=&category=
func (c *CatalogHandler) getTrending(w http.ResponseWriter, r *http.Request) {
	page, err := c.catalogUsecase.Trending(r.Context(), usecase.TrendingReq{
		CategoryIDs: queryList(r, "category"),
		MinSales:    int64(queryInt(r, "minSales")),
		Limit:       queryInt(r, "limit"),
	})
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, c.toListResponse(page))
}

// ingestProduct POST /products
func (c *CatalogHandler) ingestProduct(w http.ResponseWriter, r *http.Request) {
	var req IngestProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	if err := validateIngest(&req); err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	saved, err := c.catalogUsecase.IngestProduct(r.Context(), req.toDomain())
	if err != nil {
		handleError(w, r, c.logger, err)
		return
	}

	c.logger.Infof("product %s ingested", saved.ItemID)
	WriteSuccess(w, http.StatusOK, c.toProduct(saved))
}

func (c *CatalogHandler) toListResponse(page *usecase.ProductPage) ProductListResponse {
	return ProductListResponse{
		Items:  c.toProducts(page.Items),
		Count:  page.Count,
		Source: page.Source,
	}
}

func (c *CatalogHandler) toProducts(items []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, c.toProduct(&items[i]))
	}

	return out
}

func (c *CatalogHandler) toProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ItemID:            p.ItemID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		OriginalPrice:     p.OriginalPrice,
		DiscountPercent:   p.DiscountPercent(),
		ImageURL:          p.ImageURL,
		ProductURL:        p.LinkURL(c.fallbackURL),
		CategoryID:        p.CategoryID,
		CategoryName:      p.CategoryName,
		EffectiveCategory: c.catalogUsecase.AdjustCategory(p),
		Sales:             p.Sales,
		CommissionRate:    p.CommissionRate,
		RatingStar:        p.RatingStar,
		ShopID:            p.ShopID,
		ShopName:          p.ShopName,
		Source:            p.Source,
	}
}

func parseFilter(r *http.Request) (usecase.Filter, error) {
	q := r.URL.Query()

	minPrice, err := queryDecimal(r, "minPrice")
	if err != nil {
		return usecase.Filter{}, err
	}

	maxPrice, err := queryDecimal(r, "maxPrice")
	if err != nil {
		return usecase.Filter{}, err
	}

	minCommission, err := queryDecimal(r, "minCommission")
	if err != nil {
		return usecase.Filter{}, err
	}

	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return usecase.Filter{}, e.Wrap("minPrice exceeds maxPrice", e.ErrStatusBadRequest)
	}

	return usecase.Filter{
		Keyword:       q.Get("keyword"),
		CategoryID:    q.Get("category"),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		MinCommission: minCommission,
		SortBy:        usecase.ParseSortField(q.Get("sortBy")),
		Ascending:     strings.EqualFold(q.Get("order"), "asc"),
		Page:          queryInt(r, "page"),
		Limit:         queryInt(r, "limit"),
	}, nil
}

// validateIngest проверяет денежные поля, которые не выражаются тегами validate.
func validateIngest(req *IngestProductRequest) error {
	const op = "validateIngest"

	switch {
	case req.Price.IsNegative():
		return e.Wrap(op, fmt.Errorf("%w: negative price", e.ErrStatusBadRequest))
	case req.OriginalPrice != nil && req.OriginalPrice.LessThan(*req.Price):
		return e.Wrap(op, fmt.Errorf("%w: original price below price", e.ErrStatusBadRequest))
	case req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(one):
		return e.Wrap(op, fmt.Errorf("%w: commission rate out of [0,1]", e.ErrStatusBadRequest))
	case req.RatingStar.IsNegative() || req.RatingStar.GreaterThan(five):
		return e.Wrap(op, fmt.Errorf("%w: rating out of [0,5]", e.ErrStatusBadRequest))
	default:
		return nil
	}
}

var (
	one  = decimal.NewFromInt(1)
	five = decimal.NewFromInt(5)
)
