package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
)

type MySQLCategoryRepository struct {
	db *sql.DB
}

func NewMySQLCategoryRepository(db *sql.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{db: db}
}

// ListByParent returns the children of parentID, or the top-level categories when nil.
func (r *MySQLCategoryRepository) ListByParent(ctx context.Context, parentID *int64) ([]domain.Category, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, ''), parent_id, sort_order, created_at
		FROM categories`
	var args []interface{}
	if parentID != nil {
		query += " WHERE parent_id = ?"
		args = append(args, *parentID)
	} else {
		query += " WHERE parent_id IS NULL"
	}
	query += " ORDER BY sort_order ASC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var (
			c      domain.Category
			parent sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &parent, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		if parent.Valid {
			id := parent.Int64
			c.ParentID = &id
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}
