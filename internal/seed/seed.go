package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

type Seeder struct {
	db         *sql.DB
	logger     *zap.Logger
	bcryptCost int
}

func NewSeeder(db *sql.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger, bcryptCost: bcrypt.DefaultCost}
}

// Apply upserts the fixture by slug/email inside one transaction, so it can be rerun.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	categoryIDs := make(map[string]int64, len(f.Categories))
	for _, c := range f.Categories {
		var parentID *int64
		if c.Parent != "" {
			id := categoryIDs[c.Parent]
			parentID = &id
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, slug, description, parent_id, sort_order)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE name = VALUES(name), description = VALUES(description),
				parent_id = VALUES(parent_id), sort_order = VALUES(sort_order)
		`, c.Name, c.Slug, c.Description, parentID, c.SortOrder)
		if err != nil {
			return fmt.Errorf("upserting category %s: %w", c.Slug, err)
		}

		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE slug = ?`, c.Slug).Scan(&id); err != nil {
			return fmt.Errorf("resolving category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = id
	}

	for _, p := range f.Products {
		var categoryID *int64
		if p.Category != "" {
			id := categoryIDs[p.Category]
			categoryID = &id
		}

		var original decimal.NullDecimal
		if p.OriginalPrice != "" {
			original = decimal.NewNullDecimal(decimal.RequireFromString(p.OriginalPrice))
		}

		inStock := true
		if p.InStock != nil {
			inStock = *p.InStock
		}
		status := p.Status
		if status == "" {
			status = domain.ProductStatusActive
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, slug, description, price, original_price, image_url, category_id,
				tags, in_stock, rating, review_count, featured, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE name = VALUES(name), description = VALUES(description),
				price = VALUES(price), original_price = VALUES(original_price), image_url = VALUES(image_url),
				category_id = VALUES(category_id), tags = VALUES(tags), in_stock = VALUES(in_stock),
				rating = VALUES(rating), review_count = VALUES(review_count), featured = VALUES(featured),
				status = VALUES(status)
		`, p.Name, p.Slug, p.Description, decimal.RequireFromString(p.Price), original, p.ImageURL, categoryID,
			p.tagsColumn(), inStock, p.Rating, p.ReviewCount, p.Featured, status)
		if err != nil {
			return fmt.Errorf("upserting product %s: %w", p.Slug, err)
		}
	}

	for _, u := range f.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", u.Email, err)
		}
		role := u.Role
		if role == "" {
			role = domain.RoleCustomer
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (email, name, password_hash, role)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE name = VALUES(name), password_hash = VALUES(password_hash), role = VALUES(role)
		`, u.Email, u.Name, string(hash), role)
		if err != nil {
			return fmt.Errorf("upserting user %s: %w", u.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	s.logger.Info("seed applied",
		zap.Int("categories", len(f.Categories)),
		zap.Int("products", len(f.Products)),
		zap.Int("users", len(f.Users)),
	)
	return nil
}
