package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
)

// ProductReader — чтение каталога. Реализуется и PostgreSQL, и генератором синтетических товаров.
type ProductReader interface {
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Product, error)
	ByCategory(ctx context.Context, categoryID string, limit, offset int) ([]domain.Product, error)
	Filter(ctx context.Context, f Filter) ([]domain.Product, int, error)
	GetByItemID(ctx context.Context, itemID string) (*domain.Product, error)
	Count(ctx context.Context) (int, error)
}

// ProductStore — основное хранилище товаров.
type ProductStore interface {
	ProductReader
	Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

// CategorySource отдаёт таксономию (БД или файл).
type CategorySource interface {
	Name() string
	LoadCategories(ctx context.Context) ([]domain.Category, error)
}

// CacheRepository — кэш чтения каталога.
type CacheRepository interface {
	GetPage(ctx context.Context, key string) (*CachedPage, bool, error)
	SetPage(ctx context.Context, key string, page *CachedPage) error
	Invalidate(ctx context.Context) error
}

// LinkStatsRepository хранит счётчики кликов и конверсий по ссылкам.
type LinkStatsRepository interface {
	RecordClick(ctx context.Context, linkID string, at time.Time) error
	RecordConversion(ctx context.Context, event *domain.TrackingEvent) error
	Stats(ctx context.Context, linkID string) (*domain.LinkStats, error)
}
