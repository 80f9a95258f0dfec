package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const productSelect = `
		SELECT p.id, p.category_id, p.sku, p.name, p.slug, p.description, p.price, p.rating,
		       p.image_url, p.created_at, p.updated_at,
		       c.id, c.name, c.friendly_name`

const productFrom = `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`

// sortColumns maps catalog sort keys to SQL expressions. Only these
// expressions are ever interpolated into ORDER BY.
var sortColumns = map[string]string{
	domain.SortName:     "lower(p.name)",
	domain.SortPrice:    "p.price",
	domain.SortRating:   "p.rating",
	domain.SortCategory: "c.name",
	domain.SortSKU:      "p.sku",
}

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, category_id, sku, name, slug, description, price, rating, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.CategoryID,
		p.SKU,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.Rating,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError(err, p)
	}

	return nil
}

// GetByID retrieves a product and its category.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (p *domain.Product, err error) {
	query := productSelect + productFrom + `
		WHERE p.id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProduct", query)
	defer func() { end(err) }()

	p, err = scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return p, nil
}

// List returns products matching the filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) (products []domain.Product, total int, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if len(filter.CategoryNames) > 0 {
		conditions = append(conditions, fmt.Sprintf("c.name = ANY($%d)", argIndex))
		args = append(args, filter.CategoryNames)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, containsPattern(*filter.Search))
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, err := orderClause(filter.Sort, filter.Descending)
	if err != nil {
		return nil, 0, err
	}

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := productSelect + `,
		       count(*) OVER() AS total_count` + productFrom + whereClause + fmt.Sprintf(`
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, orderBy, argIndex, argIndex+1)

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
		// A page past the end still reports how many products matched.
		if offset > 0 {
			countQuery := `
		SELECT count(*)` + productFrom + whereClause
			if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
				return nil, 0, fmt.Errorf("count products: %w", err)
			}
		}
	}

	return products, total, nil
}

// Update modifies an existing product in the database. The derived rating
// is left untouched.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET category_id = $1, sku = $2, name = $3, slug = $4, description = $5,
		    price = $6, image_url = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		p.CategoryID,
		p.SKU,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.ImageURL,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return mapProductWriteError(err, p)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

func orderClause(sort string, descending bool) (string, error) {
	if sort == "" {
		return "p.created_at DESC, p.id", nil
	}
	col, ok := sortColumns[sort]
	if !ok {
		return "", apperrors.InvalidParameter(fmt.Sprintf("unknown sort key %q", sort))
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, p.created_at DESC, p.id", col, dir), nil
}

func mapProductWriteError(err error, p *domain.Product) error {
	switch {
	case isUniqueViolation(err):
		return apperrors.AlreadyExists("product", "slug", p.Slug)
	case isForeignKeyViolation(err):
		return apperrors.InvalidInput("category does not exist")
	default:
		return fmt.Errorf("write product: %w", err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads one row selected with productSelect. extra receives any
// columns that follow the category columns.
func scanProduct(row rowScanner, extra ...any) (*domain.Product, error) {
	var (
		p                           domain.Product
		catID, catName, catFriendly *string
	)

	dest := append([]any{
		&p.ID,
		&p.CategoryID,
		&p.SKU,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.Rating,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
		&catID,
		&catName,
		&catFriendly,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if catID != nil {
		p.Category = &domain.Category{ID: *catID, FriendlyName: catFriendly}
		if catName != nil {
			p.Category.Name = *catName
		}
	}

	return &p, nil
}
