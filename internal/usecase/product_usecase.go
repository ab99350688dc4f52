package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	fallbackReasonUnavailable = "unavailable"
	fallbackReasonEmpty       = "empty"
	cacheFillTimeout          = 500 * time.Millisecond
)

// ProductUseCase — репозиторий товаров для остальных сценариев: кэш, основное хранилище
// и синтетический каталог на случай пустой или недоступной базы.
type ProductUseCase struct {
	store     ProductStore
	synthetic ProductReader
	cacheRepo CacheRepository
	logger    logger.Logger
	metrics   Metrics
}

func NewProductUC(
	store ProductStore,
	synthetic ProductReader,
	cacheRepo CacheRepository,
	logger logger.Logger,
	metrics Metrics,
) *ProductUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &ProductUseCase{
		store:     store,
		synthetic: synthetic,
		cacheRepo: cacheRepo,
		logger:    logger,
		metrics:   metrics,
	}
}

// readResult — результат чтения вместе с происхождением данных.
type readResult struct {
	items  []domain.Product
	total  int
	source domain.Source
}

// fetchFunc выполняет один и тот же запрос к любому источнику.
type fetchFunc func(ctx context.Context, r ProductReader) ([]domain.Product, int, error)

// List возвращает страницу каталога в порядке идентификаторов.
func (p *ProductUseCase) List(ctx context.Context, page Page, opts ReadOptions) (*ProductPage, error) {
	const op = "ProductUseCase.List"

	page = NewPage(page.Limit, page.Offset)
	key := fmt.Sprintf("list:%d:%d", page.Limit, page.Offset)

	res, err := p.read(ctx, op, key, opts, func(ctx context.Context, r ProductReader) ([]domain.Product, int, error) {
		items, err := r.List(ctx, page.Limit, page.Offset)
		return items, len(items), err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductPage(res.items, res.source), nil
}

// Search ищет товары по подстроке в названии и описании без учёта регистра.
func (p *ProductUseCase) Search(ctx context.Context, term string, limit int, opts ReadOptions) (*SearchResult, error) {
	const op = "ProductUseCase.Search"

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, e.Wrap(op, e.ErrEmptySearchTerm)
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	limit = min(limit, MaxLimit)

	key := fmt.Sprintf("search:%d:%s", limit, strings.ToLower(term))
	res, err := p.read(ctx, op, key, opts, func(ctx context.Context, r ProductReader) ([]domain.Product, int, error) {
		items, err := r.Search(ctx, term, limit)
		return items, len(items), err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &SearchResult{
		Items:  res.items,
		Count:  len(res.items),
		Term:   term,
		Source: res.source,
	}, nil
}

// ByCategory возвращает страницу товаров категории.
func (p *ProductUseCase) ByCategory(ctx context.Context, categoryID string, page Page, opts ReadOptions) (*ProductPage, error) {
	const op = "ProductUseCase.ByCategory"

	page = NewPage(page.Limit, page.Offset)
	key := fmt.Sprintf("category:%s:%d:%d", categoryID, page.Limit, page.Offset)

	res, err := p.read(ctx, op, key, opts, func(ctx context.Context, r ProductReader) ([]domain.Product, int, error) {
		items, err := r.ByCategory(ctx, categoryID, page.Limit, page.Offset)
		return items, len(items), err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductPage(res.items, res.source), nil
}

// Filter выполняет фильтрованный поиск с сортировкой и постраничной выдачей.
func (p *ProductUseCase) Filter(ctx context.Context, f Filter, opts ReadOptions) (*FilterResult, error) {
	const op = "ProductUseCase.Filter"

	f = f.Normalize()
	res, err := p.read(ctx, op, filterKey(f), opts, func(ctx context.Context, r ProductReader) ([]domain.Product, int, error) {
		return r.Filter(ctx, f)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &FilterResult{
		Items:  res.items,
		Total:  res.total,
		Page:   f.Page,
		Limit:  f.Limit,
		Source: res.source,
	}, nil
}

// FilterFrom выполняет фильтрованный поиск в каталоге заданного происхождения.
// Для синтетических данных хранилище не опрашивается, для реальных действует обычная
// политика чтения, включая переход на синтетический каталог.
func (p *ProductUseCase) FilterFrom(ctx context.Context, source domain.Source, f Filter, opts ReadOptions) (*FilterResult, error) {
	const op = "ProductUseCase.FilterFrom"

	if source != domain.SourceSynthetic {
		return p.Filter(ctx, f, opts)
	}

	f = f.Normalize()
	res, err := p.readSynthetic(ctx, func(ctx context.Context, r ProductReader) ([]domain.Product, int, error) {
		return r.Filter(ctx, f)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &FilterResult{
		Items:  res.items,
		Total:  res.total,
		Page:   f.Page,
		Limit:  f.Limit,
		Source: res.source,
	}, nil
}

// Get возвращает товар по внешнему идентификатору. Источник выбирается так же, как для чтения страниц.
func (p *ProductUseCase) Get(ctx context.Context, itemID string) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	product, err := p.store.GetByItemID(ctx, itemID)
	switch {
	case err == nil:
		product.Source = domain.SourceReal
		return product, nil
	case errors.Is(err, e.ErrProductNotFound):
		empty, countErr := p.storeEmpty(ctx)
		if countErr != nil || !empty {
			return nil, e.Wrap(op, err)
		}
		p.metrics.Fallback(op, fallbackReasonEmpty)
	default:
		p.logger.Warnf("product store unavailable, serving synthetic product: %v", e.Wrap(op, err))
		p.metrics.Fallback(op, fallbackReasonUnavailable)
	}

	product, err = p.synthetic.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	product.Source = domain.SourceSynthetic

	return product, nil
}

// Upsert сохраняет товар. Путь записи не деградирует: недоступное хранилище возвращает ошибку.
func (p *ProductUseCase) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	const op = "ProductUseCase.Upsert"

	saved, err := p.store.Upsert(ctx, product)
	if err != nil {
		p.logger.Errorf(err, "failed to upsert product %s", product.ItemID)
		return nil, e.Wrap(op, unavailable(err))
	}

	// Страницы каталога в кэше устарели
	if err := p.cacheRepo.Invalidate(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate catalog cache: %v", e.Wrap(op, err))
	}

	return saved, nil
}

// read реализует общую политику чтения: кэш, затем хранилище, затем синтетический каталог.
// Реальные и синтетические товары никогда не смешиваются в одном ответе.
func (p *ProductUseCase) read(ctx context.Context, op, key string, opts ReadOptions, fetch fetchFunc) (*readResult, error) {
	if !opts.BypassCache {
		cached, ok, err := p.cacheRepo.GetPage(ctx, key)
		if err != nil {
			p.logger.Warnf("catalog cache read failed: %v", e.Wrap(op, err))
		}

		if ok {
			p.metrics.CacheHit(op)
			return &readResult{items: cached.Items, total: cached.Total, source: domain.SourceReal}, nil
		}
		p.metrics.CacheMiss(op)
	}

	items, total, err := fetch(ctx, p.store)
	if err != nil {
		p.logger.Warnf("product store unavailable, serving synthetic catalog: %v", e.Wrap(op, err))
		p.metrics.Fallback(op, fallbackReasonUnavailable)
		return p.readSynthetic(ctx, fetch)
	}

	if len(items) == 0 {
		empty, err := p.storeEmpty(ctx)
		if err != nil {
			p.logger.Warnf("product store count failed, serving synthetic catalog: %v", e.Wrap(op, err))
			p.metrics.Fallback(op, fallbackReasonUnavailable)
			return p.readSynthetic(ctx, fetch)
		}

		if empty {
			p.metrics.Fallback(op, fallbackReasonEmpty)
			return p.readSynthetic(ctx, fetch)
		}
	}

	for i := range items {
		items[i].Source = domain.SourceReal
	}

	// Фоновое заполнение кэша
	page := &CachedPage{Items: append([]domain.Product(nil), items...), Total: total}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), cacheFillTimeout)
		defer cancel()

		if err := p.cacheRepo.SetPage(bgCtx, key, page); err != nil {
			p.logger.Warnf("Failed to cache catalog page in background: %v", e.Wrap(op, err))
		}
	}()

	return &readResult{items: items, total: total, source: domain.SourceReal}, nil
}

// readSynthetic выполняет запрос к синтетическому каталогу. Результаты не кэшируются,
// чтобы реальные данные появились сразу после восстановления хранилища.
func (p *ProductUseCase) readSynthetic(ctx context.Context, fetch fetchFunc) (*readResult, error) {
	items, total, err := fetch(ctx, p.synthetic)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Source = domain.SourceSynthetic
	}

	return &readResult{items: items, total: total, source: domain.SourceSynthetic}, nil
}

// storeEmpty проверяет, что в хранилище нет ни одного товара.
func (p *ProductUseCase) storeEmpty(ctx context.Context) (bool, error) {
	n, err := p.store.Count(ctx)
	if err != nil {
		return false, err
	}

	return n == 0, nil
}

func filterKey(f Filter) string {
	return fmt.Sprintf("filter:%s:%s:%s:%s:%s:%d:%s:%s:%s:%t:%d:%d",
		strings.ToLower(f.Keyword), f.CategoryID, decimalKey(f.MinPrice), decimalKey(f.MaxPrice),
		decimalKey(f.MinCommission), f.MinSales, strings.Join(f.CategoryIDs, ","), f.ExcludeItemID,
		f.SortBy, f.Ascending, f.Page, f.Limit)
}

func decimalKey(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}

	return d.String()
}

// unavailable помечает сбой хранилища как e.ErrRepositoryUnavailable, сохраняя причину.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", e.ErrRepositoryUnavailable, err)
}
