package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(products []domain.Product, categories ...domain.Category) (*CatalogUseCase, *productFixture) {
	pf := newProductFixture(products)
	store := NewCategoryStore(logger.NewNopLogger(), &fakeCategorySource{name: "file", categories: categories})
	store.Load(context.Background())
	return NewCatalogUC(pf.uc, store, logger.NewNopLogger(), 10), pf
}

func fifteenProducts() []domain.Product {
	products := make([]domain.Product, 0, 15)
	for i := 0; i < 15; i++ {
		// продажи, рейтинг и скидка упорядочены по-разному
		sales := int64((i * 7) % 15)
		rating := decimal.NewFromInt(int64(i % 5)).Add(decimal.NewFromFloat(float64(i) / 100))
		orig := decimal.NewFromInt(100)
		price := decimal.NewFromInt(int64(100 - (i*11)%60))
		products = append(products, domain.Product{
			ItemID:        fmt.Sprintf("p%d", i),
			Name:          fmt.Sprintf("Product %d", i),
			Sales:         sales,
			RatingStar:    rating,
			Price:         price,
			OriginalPrice: &orig,
			CategoryID:    "1",
		})
	}
	return products
}

func TestCatalogUseCase_Showcase(t *testing.T) {
	uc, _ := newCatalogFixture(fifteenProducts())

	showcase, err := uc.GetShowcase(context.Background(), ReadOptions{BypassCache: true})
	require.NoError(t, err)

	require.Len(t, showcase.Popular, 10)
	require.Len(t, showcase.TopRated, 10)
	require.Len(t, showcase.BiggestDiscounts, 10)
	assert.Equal(t, domain.SourceReal, showcase.Source)

	for i := 1; i < 10; i++ {
		assert.GreaterOrEqual(t, showcase.Popular[i-1].Sales, showcase.Popular[i].Sales)
		assert.True(t, showcase.TopRated[i-1].RatingStar.GreaterThanOrEqual(showcase.TopRated[i].RatingStar))
		assert.GreaterOrEqual(t, showcase.BiggestDiscounts[i-1].DiscountPercent(), showcase.BiggestDiscounts[i].DiscountPercent())
	}
}

func TestCatalogUseCase_ShowcaseSlicesAreIndependent(t *testing.T) {
	star := product("star", "Best Seller", 1000, "5", "10", "100")
	products := append(fifteenProducts(), star)
	uc, _ := newCatalogFixture(products)

	showcase, err := uc.GetShowcase(context.Background(), ReadOptions{BypassCache: true})
	require.NoError(t, err)

	assert.Equal(t, "star", showcase.Popular[0].ItemID)
	assert.Equal(t, "star", showcase.TopRated[0].ItemID)
	assert.Equal(t, "star", showcase.BiggestDiscounts[0].ItemID)
}

func TestCatalogUseCase_ShowcaseSmallCatalog(t *testing.T) {
	uc, _ := newCatalogFixture(fiveProducts())

	showcase, err := uc.GetShowcase(context.Background(), ReadOptions{BypassCache: true})
	require.NoError(t, err)
	assert.Len(t, showcase.Popular, 5)
	assert.Equal(t, "3", showcase.Popular[0].ItemID)
	assert.Equal(t, "4", showcase.TopRated[0].ItemID)
}

func TestCatalogUseCase_ShowcaseRanksWholeCatalog(t *testing.T) {
	products := make([]domain.Product, 0, 1010)
	for i := 0; i < 1010; i++ {
		sales := int64(1)
		if i >= 1000 {
			sales = 100000
		}
		products = append(products, product(fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i), sales, "4", "10", ""))
	}
	uc, _ := newCatalogFixture(products)

	showcase, err := uc.GetShowcase(context.Background(), ReadOptions{BypassCache: true})
	require.NoError(t, err)
	require.Len(t, showcase.Popular, 10)
	for _, p := range showcase.Popular {
		assert.Equal(t, int64(100000), p.Sales, p.ItemID)
	}

	trending, err := uc.Trending(context.Background(), TrendingReq{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, trending.Items, 10)
	assert.Equal(t, "p1000", trending.Items[0].ItemID)
}

func TestCatalogUseCase_ShowcaseIsSyntheticWhenStoreDown(t *testing.T) {
	uc, pf := newCatalogFixture(fiveProducts())
	pf.store.err = errStoreDown

	showcase, err := uc.GetShowcase(context.Background(), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSynthetic, showcase.Source)
	for _, slice := range [][]domain.Product{showcase.Popular, showcase.TopRated, showcase.BiggestDiscounts} {
		require.NotEmpty(t, slice)
		for _, p := range slice {
			assert.Equal(t, domain.SourceSynthetic, p.Source)
		}
	}
	assert.Equal(t, "mock-2", showcase.Popular[0].ItemID)
}

func TestCatalogUseCase_AdjustCategory(t *testing.T) {
	uc, _ := newCatalogFixture(nil)

	tests := []struct {
		name    string
		product domain.Product
		want    string
	}{
		{
			name:    "sub-id hint wins over category name",
			product: domain.Product{SubIDs: `{"s3":"categoria_7"}`, CategoryName: "Moda"},
			want:    "7",
		},
		{
			name:    "bare hint is accepted",
			product: domain.Product{SubIDs: `{"s3":"Esportes"}`, CategoryName: "Moda"},
			want:    "Esportes",
		},
		{
			name:    "category name when no hint",
			product: domain.Product{SubIDs: `{"s1":"aff"}`, CategoryName: "Moda", CategoryID: "2"},
			want:    "Moda",
		},
		{
			name:    "category id when no name",
			product: domain.Product{CategoryID: "2"},
			want:    "2",
		},
		{
			name:    "broken sub-ids fall through",
			product: domain.Product{SubIDs: `{broken`, CategoryName: "Moda"},
			want:    "Moda",
		},
		{
			name:    "uncategorized",
			product: domain.Product{},
			want:    "Uncategorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uc.AdjustCategory(&tt.product))
		})
	}
}

func TestCatalogUseCase_BrowseCategoryPlaceholder(t *testing.T) {
	products := fiveProducts()
	uc, _ := newCatalogFixture(products, domain.Category{ID: "1", Name: "Eletrônicos", Level: 1})

	page, err := uc.BrowseCategory(context.Background(), "1", Page{}, ReadOptions{BypassCache: true})
	require.NoError(t, err)
	assert.Equal(t, "Eletrônicos", page.CategoryInfo.Name)
	assert.Len(t, page.Items, 5)

	page, err = uc.BrowseCategory(context.Background(), "99", Page{}, ReadOptions{BypassCache: true})
	require.NoError(t, err)
	assert.Equal(t, "Category 99", page.CategoryInfo.Name)
	assert.Empty(t, page.Items)
}

func TestCatalogUseCase_Recommendations(t *testing.T) {
	products := fiveProducts()
	products[4].CategoryID = "2"
	uc, _ := newCatalogFixture(products)

	page, err := uc.Recommendations(context.Background(), "1", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "3", page.Items[0].ItemID)
	assert.Equal(t, "2", page.Items[1].ItemID)
	for _, p := range page.Items {
		assert.NotEqual(t, "1", p.ItemID)
		assert.Equal(t, "1", p.CategoryID)
	}

	_, err = uc.Recommendations(context.Background(), "missing", 2)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestCatalogUseCase_RecommendationsForSyntheticProduct(t *testing.T) {
	uc, pf := newCatalogFixture(fiveProducts())
	pf.store.err = errStoreDown

	page, err := uc.Recommendations(context.Background(), "mock-1", 5)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSynthetic, page.Source)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "mock-2", page.Items[0].ItemID)
}

func TestCatalogUseCase_Trending(t *testing.T) {
	products := fiveProducts()
	products[1].CategoryID = "2"
	uc, _ := newCatalogFixture(products)

	page, err := uc.Trending(context.Background(), TrendingReq{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "3", page.Items[0].ItemID)
	assert.Equal(t, "5", page.Items[1].ItemID)

	page, err = uc.Trending(context.Background(), TrendingReq{MinSales: 15, CategoryIDs: []string{"2"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2", page.Items[0].ItemID)
}

func TestCatalogUseCase_IngestProduct(t *testing.T) {
	uc, pf := newCatalogFixture(nil, domain.Category{ID: "1", Name: "Eletrônicos", Level: 1})

	_, err := uc.IngestProduct(context.Background(), &domain.Product{Name: "no id"})
	assert.ErrorIs(t, err, e.ErrProductIDRequired)

	saved, err := uc.IngestProduct(context.Background(), &domain.Product{ItemID: "10", Name: "Tablet", CategoryID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Eletrônicos", saved.CategoryName)

	pf.store.err = errStoreDown
	_, err = uc.IngestProduct(context.Background(), &domain.Product{ItemID: "11", Name: "Phone"})
	assert.ErrorIs(t, err, e.ErrRepositoryUnavailable)
}

func TestCategoryStore_SourcePriority(t *testing.T) {
	db := &fakeCategorySource{name: "postgres", err: errors.New("relation \"categories\" does not exist")}
	file := &fakeCategorySource{name: "file", categories: []domain.Category{
		{ID: "1", Name: "Eletrônicos", Level: 1},
		{ID: "1", Name: "Duplicate", Level: 1},
		{ID: "", Name: "No id"},
		{ID: "2", Name: "Moda", Level: 0},
	}}

	store := NewCategoryStore(logger.NewNopLogger(), db, file)
	store.Load(context.Background())
	store.Load(context.Background())

	assert.Equal(t, 1, db.calls)
	assert.Equal(t, 1, file.calls)
	assert.Equal(t, "file", store.Source())

	categories := store.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, "Eletrônicos", categories[0].Name)
	assert.Equal(t, 1, categories[1].Level)

	c, ok := store.FindByID("2")
	assert.True(t, ok)
	assert.Equal(t, "Moda", c.Name)

	_, ok = store.FindByID("3")
	assert.False(t, ok)
}

func TestCategoryStore_FirstNonEmptySourceWins(t *testing.T) {
	db := &fakeCategorySource{name: "postgres", categories: []domain.Category{{ID: "1", Name: "DB", Level: 1}}}
	file := &fakeCategorySource{name: "file", categories: []domain.Category{{ID: "1", Name: "File", Level: 1}}}

	store := NewCategoryStore(logger.NewNopLogger(), db, file)
	store.Load(context.Background())

	assert.Equal(t, []domain.Category{{ID: "1", Name: "DB", Level: 1}}, store.Categories())
	assert.Zero(t, file.calls)
}

func TestCategoryStore_AllSourcesFail(t *testing.T) {
	store := NewCategoryStore(logger.NewNopLogger(),
		&fakeCategorySource{name: "postgres", err: errStoreDown},
		&fakeCategorySource{name: "file", err: errors.New("unexpected end of JSON input")},
	)
	store.Load(context.Background())

	assert.Empty(t, store.Categories())
	assert.Equal(t, "Category 5", store.Resolve("5").Name)
}

func TestCatalogUseCase_GetCategoriesReturnsCopy(t *testing.T) {
	uc, _ := newCatalogFixture(nil, domain.Category{ID: "1", Name: "Eletrônicos", Level: 1})

	categories := uc.GetCategories(context.Background())
	categories[0].Name = "changed"

	assert.Equal(t, "Eletrônicos", uc.GetCategories(context.Background())[0].Name)
}
