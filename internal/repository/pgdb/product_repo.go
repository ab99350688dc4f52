package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	id, item_id, name, description, price, original_price, image_url, product_url,
	category_id, category_name, sales, commission_rate, rating_star, shop_id, shop_name,
	sub_ids, created_at, updated_at`

// discountExpr вычисляет долю скидки так же, как domain.DiscountPercent.
const discountExpr = `CASE WHEN original_price > 0 THEN (original_price - price) / original_price ELSE 0 END`

// sortColumns — белый список выражений сортировки.
var sortColumns = map[usecase.SortField]string{
	usecase.SortBySales:      "sales",
	usecase.SortByCommission: "commission_rate",
	usecase.SortByPrice:      "price",
	usecase.SortByRating:     "rating_star",
	usecase.SortByDiscount:   discountExpr,
}

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает страницу товаров в порядке первичного ключа.
func (p *ProductRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2`

	return p.query(ctx, query, limit, offset)
}

// Search ищет подстроку в названии и описании без учёта регистра.
func (p *ProductRepo) Search(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY id
		LIMIT $2`

	return p.query(ctx, query, likePattern(term), limit)
}

// ByCategory возвращает страницу товаров категории.
func (p *ProductRepo) ByCategory(ctx context.Context, categoryID string, limit, offset int) ([]domain.Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		WHERE category_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`

	return p.query(ctx, query, categoryID, limit, offset)
}

// Filter выполняет фильтрованный поиск. Вторым значением возвращается общее число подходящих товаров.
func (p *ProductRepo) Filter(ctx context.Context, f usecase.Filter) ([]domain.Product, int, error) {
	where, args := filterWhere(f)

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s, id LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy(f), len(args)+1, len(args)+2)

	items, err := p.query(ctx, query, append(args, f.Limit, f.Offset())...)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// GetByItemID возвращает товар по внешнему идентификатору.
func (p *ProductRepo) GetByItemID(ctx context.Context, itemID string) (*domain.Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		WHERE item_id = $1`

	model, err := scanProduct(p.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Count возвращает число товаров в таблице.
func (p *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return n, nil
}

// Upsert идемпотентно создаёт или обновляет товар по внешнему идентификатору.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := p.conv.ToModel(product)

	query := `
		INSERT INTO products (
			item_id, name, description, price, original_price, image_url, product_url,
			category_id, category_name, sales, commission_rate, rating_star, shop_id, shop_name, sub_ids
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (item_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			image_url = EXCLUDED.image_url,
			product_url = EXCLUDED.product_url,
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			sales = EXCLUDED.sales,
			commission_rate = EXCLUDED.commission_rate,
			rating_star = EXCLUDED.rating_star,
			shop_id = EXCLUDED.shop_id,
			shop_name = EXCLUDED.shop_name,
			sub_ids = EXCLUDED.sub_ids,
			updated_at = NOW()
		RETURNING` + productColumns

	saved, err := scanProduct(p.pool.QueryRow(ctx, query,
		m.ItemID, m.Name, m.Description, m.Price, m.OriginalPrice, m.ImageURL, m.ProductURL,
		m.CategoryID, m.CategoryName, m.Sales, m.CommissionRate, m.RatingStar, m.ShopID, m.ShopName, m.SubIDs,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(saved), nil
}

func (p *ProductRepo) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var m converter.ProductModel
	err := row.Scan(
		&m.ID, &m.ItemID, &m.Name, &m.Description, &m.Price, &m.OriginalPrice, &m.ImageURL, &m.ProductURL,
		&m.CategoryID, &m.CategoryName, &m.Sales, &m.CommissionRate, &m.RatingStar, &m.ShopID, &m.ShopName,
		&m.SubIDs, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// filterWhere собирает условие WHERE и аргументы по заполненным полям фильтра.
func filterWhere(f usecase.Filter) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if f.Keyword != "" {
		add("(name ILIKE ? OR description ILIKE ?)", likePattern(f.Keyword))
	}
	if f.CategoryID != "" {
		add("category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		add("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= ?", *f.MaxPrice)
	}
	if f.MinCommission != nil {
		add("commission_rate >= ?", *f.MinCommission)
	}
	if f.MinSales > 0 {
		add("sales >= ?", f.MinSales)
	}
	if len(f.CategoryIDs) > 0 {
		add("category_id = ANY(?)", f.CategoryIDs)
	}
	if f.ExcludeItemID != "" {
		add("item_id <> ?", f.ExcludeItemID)
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(f usecase.Filter) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[usecase.SortBySales]
	}

	if f.Ascending {
		return col + " ASC"
	}

	return col + " DESC"
}

// likePattern экранирует спецсимволы LIKE и оборачивает строку в %.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
