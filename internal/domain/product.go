package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	ID            int64
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice decimal.NullDecimal
	ImageURL      string
	CategoryID    *int64
	CategoryName  string
	CategorySlug  string
	Tags          []string
	InStock       bool
	Rating        *float64
	ReviewCount   *int
	Featured      bool
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ParentID    *int64
	SortOrder   int
	CreatedAt   time.Time
}

// ParseTags splits the comma separated tags column, dropping blanks.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}
