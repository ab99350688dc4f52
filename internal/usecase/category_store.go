package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
)

// CategoryStore хранит таксономию, загруженную один раз при старте.
// Источники опрашиваются по порядку, побеждает первый непустой; списки разных источников не смешиваются.
type CategoryStore struct {
	sources []CategorySource
	logger  logger.Logger

	once       sync.Once
	categories []domain.Category
	byID       map[string]domain.Category
	source     string
}

func NewCategoryStore(logger logger.Logger, sources ...CategorySource) *CategoryStore {
	return &CategoryStore{
		sources: sources,
		logger:  logger,
		byID:    make(map[string]domain.Category),
	}
}

// Load загружает категории. Повторные вызовы ничего не делают.
// Ошибки источников логируются и не пробрасываются: в худшем случае список пуст.
func (s *CategoryStore) Load(ctx context.Context) {
	s.once.Do(func() {
		for _, src := range s.sources {
			categories, err := src.LoadCategories(ctx)
			if err != nil {
				s.logger.Warnf("%v", e.Wrap(fmt.Sprintf("CategoryStore.Load(%s)", src.Name()), fmt.Errorf("%w: %v", e.ErrCategoryLoad, err)))
				continue
			}

			categories = dedupCategories(categories)
			if len(categories) == 0 {
				continue
			}

			s.categories = categories
			for _, c := range categories {
				s.byID[c.ID] = c
			}
			s.source = src.Name()
			s.logger.Infof("loaded %d categories from %s", len(categories), src.Name())
			return
		}

		s.logger.Warnf("no category source yielded data, category list is empty")
	})
}

// Categories возвращает копию загруженного списка.
func (s *CategoryStore) Categories() []domain.Category {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// FindByID ищет категорию по идентификатору.
func (s *CategoryStore) FindByID(id string) (domain.Category, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Resolve возвращает категорию или синтезированную заглушку для неизвестного идентификатора.
func (s *CategoryStore) Resolve(id string) domain.Category {
	if c, ok := s.FindByID(id); ok {
		return c
	}

	s.logger.Debugf("%v: %s", e.ErrUnknownCategory, id)
	return domain.PlaceholderCategory(id)
}

// Source возвращает имя источника, из которого загружены категории.
func (s *CategoryStore) Source() string {
	return s.source
}

// dedupCategories отбрасывает записи без id и повторы id, сохраняя первую.
func dedupCategories(in []domain.Category) []domain.Category {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Category, 0, len(in))
	for _, c := range in {
		if c.ID == "" {
			continue
		}

		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		if c.Level < 1 {
			c.Level = 1
		}
		out = append(out, c)
	}

	return out
}
