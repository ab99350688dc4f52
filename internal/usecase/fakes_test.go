package usecase

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// fakeStore хранит товары в памяти.
type fakeStore struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeStore) snapshot() ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]domain.Product, error) {
	all, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	return paginate(all, limit, offset), nil
}

func (f *fakeStore) Search(_ context.Context, term string, limit int) ([]domain.Product, error) {
	all, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	out := make([]domain.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return paginate(out, limit, 0), nil
}

func (f *fakeStore) ByCategory(_ context.Context, categoryID string, limit, offset int) ([]domain.Product, error) {
	all, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range all {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return paginate(out, limit, offset), nil
}

func (f *fakeStore) Filter(_ context.Context, flt Filter) ([]domain.Product, int, error) {
	all, err := f.snapshot()
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Product, 0)
	for _, p := range all {
		switch {
		case flt.CategoryID != "" && p.CategoryID != flt.CategoryID:
		case len(flt.CategoryIDs) > 0 && !slices.Contains(flt.CategoryIDs, p.CategoryID):
		case p.Sales < flt.MinSales:
		case flt.ExcludeItemID != "" && p.ItemID == flt.ExcludeItemID:
		default:
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Product) int {
		c := compareField(flt.SortBy, a, b)
		if flt.Ascending {
			return c
		}
		return -c
	})
	return paginate(out, flt.Limit, flt.Offset()), len(out), nil
}

func compareField(field SortField, a, b domain.Product) int {
	switch field {
	case SortByRating:
		return a.RatingStar.Cmp(b.RatingStar)
	case SortByPrice:
		return a.Price.Cmp(b.Price)
	case SortByCommission:
		return a.CommissionRate.Cmp(b.CommissionRate)
	case SortByDiscount:
		return cmp.Compare(a.DiscountPercent(), b.DiscountPercent())
	default:
		return cmp.Compare(a.Sales, b.Sales)
	}
}

func (f *fakeStore) GetByItemID(_ context.Context, itemID string) (*domain.Product, error) {
	all, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ItemID == itemID {
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	all, err := f.snapshot()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (f *fakeStore) Upsert(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.products = append(f.products, *product)
	return product, nil
}

func paginate(items []domain.Product, limit, offset int) []domain.Product {
	if offset < 0 || offset >= len(items) {
		return []domain.Product{}
	}
	return items[offset : offset+min(limit, len(items)-offset)]
}

// fakeCache потокобезопасен: заполнение кэша идёт в фоне.
type fakeCache struct {
	mu          sync.Mutex
	pages       map[string]*CachedPage
	err         error
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: make(map[string]*CachedPage)}
}

func (c *fakeCache) GetPage(_ context.Context, key string) (*CachedPage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	p, ok := c.pages[key]
	return p, ok, nil
}

func (c *fakeCache) SetPage(_ context.Context, key string, page *CachedPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.pages[key] = page
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.pages = make(map[string]*CachedPage)
	return c.err
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pages[key]
	return ok
}

// fakeMetrics считает вызовы.
type fakeMetrics struct {
	mu        sync.Mutex
	fallbacks []string
	hits      int
	failures  []string
}

func (m *fakeMetrics) CacheHit(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *fakeMetrics) CacheMiss(string) {}

func (m *fakeMetrics) Fallback(_, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, reason)
}

func (m *fakeMetrics) TrackingFailure(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, kind)
}

// fakeCategorySource отдаёт заданный результат и считает вызовы.
type fakeCategorySource struct {
	name       string
	categories []domain.Category
	err        error
	calls      int
}

func (s *fakeCategorySource) Name() string { return s.name }

func (s *fakeCategorySource) LoadCategories(context.Context) ([]domain.Category, error) {
	s.calls++
	return s.categories, s.err
}

type fakeStats struct {
	mu          sync.Mutex
	clicks      []string
	conversions []*domain.TrackingEvent
	err         error
	stats       *domain.LinkStats
}

func (s *fakeStats) RecordClick(_ context.Context, linkID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.clicks = append(s.clicks, linkID)
	return nil
}

func (s *fakeStats) RecordConversion(_ context.Context, event *domain.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.conversions = append(s.conversions, event)
	return nil
}

func (s *fakeStats) Stats(_ context.Context, linkID string) (*domain.LinkStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.stats != nil {
		return s.stats, nil
	}
	return &domain.LinkStats{LinkID: linkID}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*domain.TrackingEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event *domain.TrackingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func product(id, name string, sales int64, rating, price, orig string) domain.Product {
	p := domain.Product{
		ItemID:     id,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Sales:      sales,
		RatingStar: decimal.RequireFromString(rating),
		CategoryID: "1",
	}
	if orig != "" {
		o := decimal.RequireFromString(orig)
		p.OriginalPrice = &o
	}
	return p
}
