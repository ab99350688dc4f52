package usecase

import (
	"math"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultLimit            = 100
	MaxLimit                = 1000
	DefaultOffset           = 0
	DefaultSearchLimit      = 50
	DefaultRecommendLimit   = 8
	DefaultTrendingMinSales = 50
	DefaultTrendingLimit    = 20
	DefaultFilterLimit      = 20
	UncategorizedCategory   = "Uncategorized"
)

// PRODUCT USECASE

// Page — параметры пагинации. Некорректные значения заменяются значениями по умолчанию.
type Page struct {
	Limit  int
	Offset int
}

func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = DefaultOffset
	}

	return Page{Limit: limit, Offset: offset}
}

// ReadOptions управляют чтением из кэша.
type ReadOptions struct {
	BypassCache bool // читать мимо кэша (например, после известного изменения данных)
}

// ProductPage — страница товаров. Count равен размеру страницы.
type ProductPage struct {
	Items  []domain.Product
	Count  int
	Source domain.Source
}

// SearchResult — результат поиска по подстроке.
type SearchResult struct {
	Items  []domain.Product
	Count  int
	Term   string
	Source domain.Source
}

// CategoryPage — страница товаров одной категории.
type CategoryPage struct {
	Items        []domain.Product
	Count        int
	CategoryInfo domain.Category
	Source       domain.Source
}

// SortField — поле сортировки фильтрованного поиска.
type SortField string

const (
	SortBySales      SortField = "sales"
	SortByCommission SortField = "commission"
	SortByPrice      SortField = "price"
	SortByDiscount   SortField = "discount"
	SortByRating     SortField = "rating"
)

// ParseSortField возвращает поле сортировки; неизвестные значения дают sales.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByCommission, SortByPrice, SortByDiscount, SortByRating:
		return f
	default:
		return SortBySales
	}
}

// Filter — параметры фильтрованного поиска.
type Filter struct {
	Keyword       string
	CategoryID    string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	MinCommission *decimal.Decimal
	MinSales      int64
	CategoryIDs   []string // любая из перечисленных категорий
	ExcludeItemID string
	SortBy        SortField
	Ascending     bool
	Page          int // с 1
	Limit         int
}

// Normalize подставляет значения по умолчанию.
func (f Filter) Normalize() Filter {
	f.Keyword = strings.TrimSpace(f.Keyword)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	if f.SortBy == "" {
		f.SortBy = SortBySales
	}

	if f.Page <= 0 {
		f.Page = 1
	}

	if f.Limit <= 0 {
		f.Limit = DefaultFilterLimit
	}

	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	// Смещение страницы должно помещаться в int
	if maxPage := math.MaxInt/f.Limit + 1; f.Page > maxPage {
		f.Page = maxPage
	}

	return f
}

// Offset возвращает смещение для текущей страницы. Переполнение даёт math.MaxInt,
// то есть заведомо пустую страницу.
func (f Filter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}

	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}

	return (f.Page - 1) * f.Limit
}

// FilterResult — результат фильтрованного поиска.
type FilterResult struct {
	Items  []domain.Product
	Total  int
	Page   int
	Limit  int
	Source domain.Source
}

// CATALOG USECASE

// Showcase — три независимые подборки витрины.
type Showcase struct {
	Popular          []domain.Product
	TopRated         []domain.Product
	BiggestDiscounts []domain.Product
	Source           domain.Source
}

// TrendingReq — параметры подборки популярных товаров.
type TrendingReq struct {
	CategoryIDs []string
	MinSales    int64
	Limit       int
}

// AFFILIATE USECASE

// BuildLinkReq — запрос на построение партнёрской ссылки.
type BuildLinkReq struct {
	UserID     string
	ProductID  string
	CampaignID string
	SubID      string
}

// BulkLinkItem — элемент массовой генерации. Пустой SubID наследует общий.
type BulkLinkItem struct {
	ProductID string
	SubID     string
}

// BulkLinkResult — результат по одному элементу массовой генерации.
type BulkLinkResult struct {
	ProductID string
	Link      *domain.AffiliateLink
	Err       error
}

// BulkLinksRes — сводка массовой генерации.
type BulkLinksRes struct {
	TotalProcessed int
	SuccessCount   int
	ErrorCount     int
	Results        []BulkLinkResult
}

// REPOSITORIES

// CachedPage — то, что кладётся в кэш чтения.
type CachedPage struct {
	Items []domain.Product
	Total int
}

func NewProductPage(items []domain.Product, source domain.Source) *ProductPage {
	return &ProductPage{
		Items:  items,
		Count:  len(items),
		Source: source,
	}
}
