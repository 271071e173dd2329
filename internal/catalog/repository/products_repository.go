package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

const productColumns = `
	p.id, p.name, p.slug, COALESCE(p.description, ''), p.price, p.original_price, p.image_url,
	p.category_id, COALESCE(c.name, ''), COALESCE(c.slug, ''), COALESCE(p.tags, ''),
	p.in_stock, p.rating, p.review_count, p.featured, p.status, p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

// sortColumns whitelists the sortBy values accepted from clients.
var sortColumns = map[string]string{
	"created_at":   "p.created_at",
	"createdAt":    "p.created_at",
	"price":        "p.price",
	"name":         "p.name",
	"rating":       "p.rating",
	"review_count": "p.review_count",
	"reviewCount":  "p.review_count",
}

func IsSortable(column string) bool {
	_, ok := sortColumns[column]
	return ok
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	where, args := listWhere(f)
	query := "SELECT" + productColumns + productFrom + where + " ORDER BY " + orderBy(f.SortBy, f.SortOrder) + " LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, false)
}

func (r *MySQLRepository) Count(ctx context.Context, f domain.ProductFilter) (int, error) {
	where, args := listWhere(f)
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+productFrom+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return total, nil
}

// Search ranks matches: exact name, name contains, category contains, tags contain, then
// description-only matches. Ties break on rating and review count, NULLs last.
func (r *MySQLRepository) Search(ctx context.Context, s domain.ProductSearch) ([]domain.Product, error) {
	term := strings.ToLower(strings.TrimSpace(s.Term))
	like := "%" + escapeLike(term) + "%"

	query := "SELECT" + productColumns + `,
		CASE
			WHEN LOWER(p.name) = ? THEN 0
			WHEN LOWER(p.name) LIKE ? THEN 1
			WHEN LOWER(COALESCE(c.name, '')) LIKE ? THEN 2
			WHEN LOWER(COALESCE(p.tags, '')) LIKE ? THEN 3
			ELSE 4
		END AS match_rank` + productFrom + searchWhere + `
		ORDER BY match_rank ASC,
			p.rating IS NULL, p.rating DESC,
			p.review_count IS NULL, p.review_count DESC,
			p.id ASC
		LIMIT ? OFFSET ?`

	args := []interface{}{term, like, like, like, domain.ProductStatusActive, like, like, like, like, s.Limit, s.Offset}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, true)
}

func (r *MySQLRepository) CountSearch(ctx context.Context, s domain.ProductSearch) (int, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(s.Term))) + "%"

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+productFrom+searchWhere,
		domain.ProductStatusActive, like, like, like, like,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting product search: %w", err)
	}
	return total, nil
}

func (r *MySQLRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := "SELECT" + productColumns + productFrom + " WHERE p.slug = ? AND p.status = ?"

	rows, err := r.db.QueryContext(ctx, query, slug, domain.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("querying product by slug: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows, false)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", slug))
	}
	return &products[0], nil
}

// FindByIDs returns the products with the given ids regardless of status, so callers can
// tell an inactive product from an unknown one.
func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf("SELECT"+productColumns+productFrom+" WHERE p.id IN (%s) ORDER BY p.id",
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, false)
}

const searchWhere = `
	WHERE p.status = ?
	  AND (LOWER(p.name) LIKE ?
	    OR LOWER(COALESCE(p.description, '')) LIKE ?
	    OR LOWER(COALESCE(c.name, '')) LIKE ?
	    OR LOWER(COALESCE(p.tags, '')) LIKE ?)`

func listWhere(f domain.ProductFilter) (string, []interface{}) {
	clauses := []string{"p.status = ?"}
	args := []interface{}{domain.ProductStatusActive}

	if f.CategorySlug != "" {
		clauses = append(clauses, "c.slug = ?")
		args = append(args, f.CategorySlug)
	}
	if f.Featured != nil {
		clauses = append(clauses, "p.featured = ?")
		args = append(args, *f.Featured)
	}
	if f.InStock != nil {
		clauses = append(clauses, "p.in_stock = ?")
		args = append(args, *f.InStock)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(sortBy, sortOrder string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	// Nullable aggregates sort NULLs last in both directions.
	if col == "p.rating" || col == "p.review_count" {
		return fmt.Sprintf("%s IS NULL, %s %s, p.id %s", col, col, dir, dir)
	}
	return fmt.Sprintf("%s %s, p.id %s", col, dir, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanProducts(rows *sql.Rows, withRank bool) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var (
			p           domain.Product
			original    decimal.NullDecimal
			categoryID  sql.NullInt64
			tags        string
			rating      sql.NullFloat64
			reviewCount sql.NullInt64
			rank        int
		)
		dest := []interface{}{
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &original, &p.ImageURL,
			&categoryID, &p.CategoryName, &p.CategorySlug, &tags,
			&p.InStock, &rating, &reviewCount, &p.Featured, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		}
		if withRank {
			dest = append(dest, &rank)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}

		p.OriginalPrice = original
		p.Tags = domain.ParseTags(tags)
		if categoryID.Valid {
			id := categoryID.Int64
			p.CategoryID = &id
		}
		if rating.Valid {
			v := rating.Float64
			p.Rating = &v
		}
		if reviewCount.Valid {
			v := int(reviewCount.Int64)
			p.ReviewCount = &v
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
