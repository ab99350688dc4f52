package mock

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/subid"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type template struct {
	name       string
	basePrice  string
	categoryID string
	shopName   string
}

// templates: образцы, из которых строится синтетический каталог.
var templates = []template{
	{"Smartphone XiaomiX Pro 128GB", "1299.99", "1", "Loja Oficial Xiaomi"},
	{"Notebook Gamer Legion i7 RTX3060", "5499.99", "1", "Legion Store"},
	{"Fone Bluetooth TWS Com Case", "89.99", "1", "Tech Imports"},
	{"Vestido Floral Primavera", "79.99", "2", "Fashion Store"},
	{"Jaqueta Jeans Unissex", "149.99", "2", "Fashion Store"},
	{"Cafeteira Elétrica Programável", "249.99", "3", "Casa Bonita"},
	{"Jogo de Panelas Antiaderente 5 Peças", "199.99", "3", "Casa Bonita"},
	{"Kit Maquiagem Profissional", "129.99", "4", "Beauty Plus"},
	{"Kit 10 Máscaras Faciais Reutilizáveis", "29.99", "4", "Saúde & Cia"},
	{"Tênis Esportivo Running Pro", "159.99", "5", "Sports Center"},
	{"Garrafa Térmica Inox 1L", "59.99", "5", "Sports Center"},
}

var categoryNames = map[string]string{
	"1": "Eletrônicos",
	"2": "Moda",
	"3": "Casa & Decoração",
	"4": "Beleza & Saúde",
	"5": "Esportes",
}

// ProductRepo — детерминированный синтетический каталог в памяти.
// Один и тот же seed всегда даёт одинаковые товары.
type ProductRepo struct {
	products []domain.Product
}

func NewProductRepo(size int, seed uint64) *ProductRepo {
	return &ProductRepo{products: generate(size, seed)}
}

func generate(size int, seed uint64) []domain.Product {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	products := make([]domain.Product, 0, size)
	for i := 0; i < size; i++ {
		t := templates[i%len(templates)]
		name := t.name
		if round := i / len(templates); round > 0 {
			name = fmt.Sprintf("%s (modelo %d)", t.name, round+1)
		}

		base := decimal.RequireFromString(t.basePrice)
		price := base.Mul(decimal.NewFromFloat(0.8 + rnd.Float64()*0.4)).Round(2)

		p := domain.Product{
			ItemID:         fmt.Sprintf("mock-%d", i+1),
			Name:           name,
			Description:    fmt.Sprintf("%s com entrega para todo o Brasil", name),
			Price:          price,
			ImageURL:       fmt.Sprintf("https://picsum.photos/seed/mock-%d/400/400", i+1),
			CategoryID:     t.categoryID,
			CategoryName:   categoryNames[t.categoryID],
			Sales:          rnd.Int64N(20000),
			CommissionRate: decimal.NewFromInt(int64(3 + rnd.IntN(13))).Div(decimal.NewFromInt(100)),
			RatingStar:     decimal.NewFromFloat(3.5 + rnd.Float64()*1.5).Round(1),
			ShopID:         fmt.Sprintf("shop-%d", i%7+1),
			ShopName:       t.shopName,
			SubIDs:         subid.Encode(domain.DecodedSubIds{Category: subid.CategoryPrefix + t.categoryID}),
			CreatedAt:      createdAt.Add(time.Duration(i) * time.Hour),
			Source:         domain.SourceSynthetic,
		}

		// Примерно у трёх товаров из четырёх есть скидка
		if rnd.IntN(4) != 0 {
			orig := price.Mul(decimal.NewFromFloat(1.1 + rnd.Float64()*0.7)).Round(2)
			p.OriginalPrice = &orig
		}

		products = append(products, p)
	}

	return products
}

func (m *ProductRepo) List(_ context.Context, limit, offset int) ([]domain.Product, error) {
	return paginate(m.products, limit, offset), nil
}

func (m *ProductRepo) Search(_ context.Context, term string, limit int) ([]domain.Product, error) {
	return paginate(m.match(func(p *domain.Product) bool { return containsFold(p, term) }), limit, 0), nil
}

func (m *ProductRepo) ByCategory(_ context.Context, categoryID string, limit, offset int) ([]domain.Product, error) {
	return paginate(m.match(func(p *domain.Product) bool { return p.CategoryID == categoryID }), limit, offset), nil
}

func (m *ProductRepo) Filter(_ context.Context, f usecase.Filter) ([]domain.Product, int, error) {
	matched := m.match(func(p *domain.Product) bool {
		switch {
		case f.Keyword != "" && !containsFold(p, f.Keyword):
			return false
		case f.CategoryID != "" && p.CategoryID != f.CategoryID:
			return false
		case f.MinPrice != nil && p.Price.LessThan(*f.MinPrice):
			return false
		case f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice):
			return false
		case f.MinCommission != nil && p.CommissionRate.LessThan(*f.MinCommission):
			return false
		case p.Sales < f.MinSales:
			return false
		case len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, p.CategoryID):
			return false
		case f.ExcludeItemID != "" && p.ItemID == f.ExcludeItemID:
			return false
		default:
			return true
		}
	})

	cmp := compareBy(f.SortBy)
	slices.SortStableFunc(matched, func(a, b domain.Product) int {
		if f.Ascending {
			return cmp(a, b)
		}
		return -cmp(a, b)
	})

	return paginate(matched, f.Limit, f.Offset()), len(matched), nil
}

func (m *ProductRepo) GetByItemID(_ context.Context, itemID string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ItemID == itemID {
			p := m.products[i]
			return &p, nil
		}
	}

	return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
}

func (m *ProductRepo) Count(_ context.Context) (int, error) {
	return len(m.products), nil
}

// match возвращает копии подходящих товаров в исходном порядке.
func (m *ProductRepo) match(pred func(p *domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0)
	for i := range m.products {
		if pred(&m.products[i]) {
			out = append(out, m.products[i])
		}
	}

	return out
}

func containsFold(p *domain.Product, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term)
}

// compareBy возвращает сравнение по возрастанию выбранного поля.
func compareBy(field usecase.SortField) func(a, b domain.Product) int {
	switch field {
	case usecase.SortByCommission:
		return func(a, b domain.Product) int { return a.CommissionRate.Cmp(b.CommissionRate) }
	case usecase.SortByPrice:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case usecase.SortByRating:
		return func(a, b domain.Product) int { return a.RatingStar.Cmp(b.RatingStar) }
	case usecase.SortByDiscount:
		return func(a, b domain.Product) int {
			return compareInt(a.DiscountPercent(), b.DiscountPercent())
		}
	default:
		return func(a, b domain.Product) int { return compareInt(a.Sales, b.Sales) }
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// paginate возвращает копию окна, чтобы вызывающий не мог изменить каталог.
// Конец окна считается без сложения offset+limit, которое может переполнить int.
func paginate(items []domain.Product, limit, offset int) []domain.Product {
	if offset < 0 || offset >= len(items) || limit <= 0 {
		return []domain.Product{}
	}

	end := offset + min(limit, len(items)-offset)
	return slices.Clone(items[offset:end])
}
