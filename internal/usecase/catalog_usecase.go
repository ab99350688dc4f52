package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/DRSN-tech/affiliate-catalog/pkg/subid"
)

// CatalogUseCase обслуживает витрину: категории, листинги, поиск и подборки.
type CatalogUseCase struct {
	products     *ProductUseCase
	categories   *CategoryStore
	logger       logger.Logger
	showcaseSize int
}

func NewCatalogUC(
	products *ProductUseCase,
	categories *CategoryStore,
	logger logger.Logger,
	showcaseSize int,
) *CatalogUseCase {
	return &CatalogUseCase{
		products:     products,
		categories:   categories,
		logger:       logger,
		showcaseSize: showcaseSize,
	}
}

// GetCategories возвращает публичный список категорий.
func (c *CatalogUseCase) GetCategories(_ context.Context) []domain.Category {
	return c.categories.Categories()
}

func (c *CatalogUseCase) GetProducts(ctx context.Context, page Page, opts ReadOptions) (*ProductPage, error) {
	return c.products.List(ctx, page, opts)
}

func (c *CatalogUseCase) SearchProducts(ctx context.Context, term string, limit int, opts ReadOptions) (*SearchResult, error) {
	return c.products.Search(ctx, term, limit, opts)
}

func (c *CatalogUseCase) FilterProducts(ctx context.Context, f Filter, opts ReadOptions) (*FilterResult, error) {
	return c.products.Filter(ctx, f, opts)
}

// BrowseCategory возвращает товары категории вместе с её описанием.
// Неизвестная категория не ошибка: подставляется заглушка.
func (c *CatalogUseCase) BrowseCategory(ctx context.Context, categoryID string, page Page, opts ReadOptions) (*CategoryPage, error) {
	categoryID = strings.TrimSpace(categoryID)

	res, err := c.products.ByCategory(ctx, categoryID, page, opts)
	if err != nil {
		return nil, err
	}

	return &CategoryPage{
		Items:        res.Items,
		Count:        res.Count,
		CategoryInfo: c.categories.Resolve(categoryID),
		Source:       res.Source,
	}, nil
}

// showcaseSorts задаёт подборки витрины в порядке их построения.
var showcaseSorts = [...]SortField{SortBySales, SortByRating, SortByDiscount}

// GetShowcase строит три независимые подборки: по продажам, по рейтингу и по скидке.
// Каждая подборка ранжируется по всему каталогу. Товар может попасть в несколько подборок.
func (c *CatalogUseCase) GetShowcase(ctx context.Context, opts ReadOptions) (*Showcase, error) {
	const op = "CatalogUseCase.GetShowcase"

	var (
		source = domain.SourceReal
		picks  [len(showcaseSorts)][]domain.Product
	)

	for i := 0; i < len(showcaseSorts); i++ {
		res, err := c.products.FilterFrom(ctx, source, Filter{SortBy: showcaseSorts[i], Limit: c.showcaseSize}, opts)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Хранилище отказало посреди сборки: витрина целиком строится из синтетики
		if res.Source != source {
			source = res.Source
			i = -1
			continue
		}
		picks[i] = res.Items
	}

	return &Showcase{
		Popular:          picks[0],
		TopRated:         picks[1],
		BiggestDiscounts: picks[2],
		Source:           source,
	}, nil
}

// Recommendations возвращает товары той же категории, кроме исходного, по убыванию продаж.
// Подборка берётся из каталога того же происхождения, что и исходный товар.
func (c *CatalogUseCase) Recommendations(ctx context.Context, productID string, limit int) (*ProductPage, error) {
	const op = "CatalogUseCase.Recommendations"

	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	product, err := c.products.Get(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if product.CategoryID == "" {
		return NewProductPage([]domain.Product{}, product.Source), nil
	}

	res, err := c.products.FilterFrom(ctx, product.Source, Filter{
		CategoryID:    product.CategoryID,
		ExcludeItemID: product.ItemID,
		SortBy:        SortBySales,
		Limit:         limit,
	}, ReadOptions{})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductPage(res.Items, res.Source), nil
}

// Trending возвращает товары с продажами не ниже порога, по убыванию продаж.
func (c *CatalogUseCase) Trending(ctx context.Context, req TrendingReq) (*ProductPage, error) {
	const op = "CatalogUseCase.Trending"

	if req.MinSales <= 0 {
		req.MinSales = DefaultTrendingMinSales
	}

	if req.Limit <= 0 {
		req.Limit = DefaultTrendingLimit
	}

	res, err := c.products.Filter(ctx, Filter{
		CategoryIDs: req.CategoryIDs,
		MinSales:    req.MinSales,
		SortBy:      SortBySales,
		Limit:       req.Limit,
	}, ReadOptions{})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductPage(res.Items, res.Source), nil
}

// IngestProduct сохраняет товар из внешнего источника.
func (c *CatalogUseCase) IngestProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	const op = "CatalogUseCase.IngestProduct"

	if strings.TrimSpace(product.ItemID) == "" {
		return nil, e.Wrap(op, e.ErrProductIDRequired)
	}

	if product.CategoryName == "" && product.CategoryID != "" {
		if cat, ok := c.categories.FindByID(product.CategoryID); ok {
			product.CategoryName = cat.Name
		}
	}

	saved, err := c.products.Upsert(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return saved, nil
}

// AdjustCategory определяет действующую категорию товара: подсказка из sub-id важнее
// сохранённой категории, иначе "Uncategorized".
func (c *CatalogUseCase) AdjustCategory(product *domain.Product) string {
	if hint, ok := subid.CategoryHint(subid.Decode(product.SubIDs)); ok {
		return hint
	}

	if product.CategoryName != "" {
		return product.CategoryName
	}

	if product.CategoryID != "" {
		return product.CategoryID
	}

	return UncategorizedCategory
}
