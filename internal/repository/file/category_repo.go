package file

import (
	"context"
	"encoding/json"
	"os"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/jimlawless/whereami"
)

// CategoryRepo читает таксономию из JSON-файла: массив категорий
// или объект с полем "categories".
type CategoryRepo struct {
	path string
}

func NewCategoryRepo(path string) *CategoryRepo {
	return &CategoryRepo{path: path}
}

func (c *CategoryRepo) Name() string {
	return "file"
}

func (c *CategoryRepo) LoadCategories(_ context.Context) ([]domain.Category, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err == nil {
		return categories, nil
	}

	var wrapped struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return wrapped.Categories, nil
}
