package converter

import (
	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
)

type PageConverter interface {
	ToRedisModel(page *usecase.CachedPage) *PageRedisModel
	ToUseCase(model *PageRedisModel) *usecase.CachedPage
}

type PageConverterImpl struct{}

func (PageConverterImpl) ToRedisModel(page *usecase.CachedPage) *PageRedisModel {
	model := &PageRedisModel{
		Items: make([]ProductRedisModel, 0, len(page.Items)),
		Total: page.Total,
	}

	for _, p := range page.Items {
		model.Items = append(model.Items, ProductRedisModel{
			ItemID:         p.ItemID,
			Name:           p.Name,
			Description:    p.Description,
			Price:          p.Price,
			OriginalPrice:  p.OriginalPrice,
			ImageURL:       p.ImageURL,
			ProductURL:     p.ProductURL,
			CategoryID:     p.CategoryID,
			CategoryName:   p.CategoryName,
			Sales:          p.Sales,
			CommissionRate: p.CommissionRate,
			RatingStar:     p.RatingStar,
			ShopID:         p.ShopID,
			ShopName:       p.ShopName,
			SubIDs:         p.SubIDs,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		})
	}

	return model
}

// ToUseCase восстанавливает страницу. В кэш попадают только реальные товары.
func (PageConverterImpl) ToUseCase(model *PageRedisModel) *usecase.CachedPage {
	page := &usecase.CachedPage{
		Items: make([]domain.Product, 0, len(model.Items)),
		Total: model.Total,
	}

	for _, m := range model.Items {
		page.Items = append(page.Items, domain.Product{
			ItemID:         m.ItemID,
			Name:           m.Name,
			Description:    m.Description,
			Price:          m.Price,
			OriginalPrice:  m.OriginalPrice,
			ImageURL:       m.ImageURL,
			ProductURL:     m.ProductURL,
			CategoryID:     m.CategoryID,
			CategoryName:   m.CategoryName,
			Sales:          m.Sales,
			CommissionRate: m.CommissionRate,
			RatingStar:     m.RatingStar,
			ShopID:         m.ShopID,
			ShopName:       m.ShopName,
			SubIDs:         m.SubIDs,
			CreatedAt:      m.CreatedAt,
			UpdatedAt:      m.UpdatedAt,
			Source:         domain.SourceReal,
		})
	}

	return page
}
