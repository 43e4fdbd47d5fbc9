package pgdb

import (
	"context"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	id, external_id, name, brand, category, price::text, currency, description,
	image_url, retailer_name, retailer_url, affiliate_url, in_stock, created_at, updated_at`

// ProductRepo реализует каталог товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// FindInStockByCategory возвращает товары категории, которые есть в наличии.
// Эмбеддинги не заполняются, они хранятся в векторном хранилище.
func (p *ProductRepo) FindInStockByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		WHERE category = $1 AND in_stock
		ORDER BY id`

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, category)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// Upsert идемпотентно создаёт или обновляет товар по external_id.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	id := product.ID
	if id == "" {
		id = uuid.NewString()
	}

	model := converter.ProductToModel(product)
	query := `
		INSERT INTO products (
			id, external_id, name, brand, category, price, currency, description,
			image_url, retailer_name, retailer_url, affiliate_url, in_stock
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (external_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			retailer_name = EXCLUDED.retailer_name,
			retailer_url = EXCLUDED.retailer_url,
			affiliate_url = EXCLUDED.affiliate_url,
			in_stock = EXCLUDED.in_stock,
			updated_at = NOW()
		RETURNING` + productColumns

	row := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query,
		id, model.ExternalID, model.Name, model.Brand, model.Category, model.Price, model.Currency,
		model.Description, model.ImageURL, model.RetailerName, model.RetailerURL, model.AffiliateURL, model.InStock,
	)

	saved, err := scanProduct(row)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return saved, nil
}

// CountByCategory возвращает число товаров в наличии по категориям.
func (p *ProductRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		WHERE in_stock
		GROUP BY category`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		res[category] = count
	}

	return res, rows.Err()
}

// loadProducts возвращает товары по ID, используется при чтении совпадений скана.
func loadProducts(ctx context.Context, q tr.Querier, ids []string) (map[string]*domain.Product, error) {
	res := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	query := `SELECT` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		res[product.ID] = product
	}

	return res, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var m converter.ProductModel
	if err := row.Scan(
		&m.ID, &m.ExternalID, &m.Name, &m.Brand, &m.Category, &m.Price, &m.Currency, &m.Description,
		&m.ImageURL, &m.RetailerName, &m.RetailerURL, &m.AffiliateURL, &m.InStock, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return converter.ProductToEntity(&m)
}
