package converter

import (
	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
}

// LinkStatsConverter собирает сводку по ссылке из дневных записей.
type LinkStatsConverter interface {
	ToEntity(linkID string, models []*LinkDailyStatsModel) *domain.LinkStats
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	model := &ProductModel{
		ItemID:         entity.ItemID,
		Name:           entity.Name,
		Description:    entity.Description,
		Price:          entity.Price,
		ImageURL:       entity.ImageURL,
		ProductURL:     entity.ProductURL,
		CategoryID:     entity.CategoryID,
		CategoryName:   entity.CategoryName,
		Sales:          entity.Sales,
		CommissionRate: entity.CommissionRate,
		RatingStar:     entity.RatingStar,
		ShopID:         entity.ShopID,
		ShopName:       entity.ShopName,
		SubIDs:         entity.SubIDs,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
	if entity.OriginalPrice != nil {
		model.OriginalPrice = decimal.NewNullDecimal(*entity.OriginalPrice)
	}

	return model
}

// ToEntity помечает товар как реальный: модель всегда приходит из базы.
func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	entity := &domain.Product{
		ItemID:         model.ItemID,
		Name:           model.Name,
		Description:    model.Description,
		Price:          model.Price,
		ImageURL:       model.ImageURL,
		ProductURL:     model.ProductURL,
		CategoryID:     model.CategoryID,
		CategoryName:   model.CategoryName,
		Sales:          model.Sales,
		CommissionRate: model.CommissionRate,
		RatingStar:     model.RatingStar,
		ShopID:         model.ShopID,
		ShopName:       model.ShopName,
		SubIDs:         model.SubIDs,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
		Source:         domain.SourceReal,
	}
	if model.OriginalPrice.Valid {
		orig := model.OriginalPrice.Decimal
		entity.OriginalPrice = &orig
	}

	return entity
}

type CategoryConverterImpl struct{}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}

	entity := domain.NewCategory(model.ID, model.Name, model.Level)
	if model.Icon != nil {
		entity.Icon = *model.Icon
	}

	return entity
}

type LinkStatsConverterImpl struct{}

func (LinkStatsConverterImpl) ToEntity(linkID string, models []*LinkDailyStatsModel) *domain.LinkStats {
	stats := &domain.LinkStats{
		LinkID:  linkID,
		Revenue: decimal.Zero,
		Daily:   make([]domain.LinkDailyStats, 0, len(models)),
	}

	for _, m := range models {
		stats.Clicks += m.Clicks
		stats.Conversions += m.Conversions
		stats.Revenue = stats.Revenue.Add(m.Revenue)
		stats.Daily = append(stats.Daily, domain.LinkDailyStats{
			Day:         m.Day,
			Clicks:      m.Clicks,
			Conversions: m.Conversions,
			Revenue:     m.Revenue,
		})
	}

	return stats
}
