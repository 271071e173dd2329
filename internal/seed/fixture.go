package seed

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"
)

type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Users      []UserFixture     `yaml:"users"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Parent      string `yaml:"parent"`
	SortOrder   int    `yaml:"sortOrder"`
}

type ProductFixture struct {
	Name          string   `yaml:"name"`
	Slug          string   `yaml:"slug"`
	Description   string   `yaml:"description"`
	Price         string   `yaml:"price"`
	OriginalPrice string   `yaml:"originalPrice"`
	ImageURL      string   `yaml:"imageUrl"`
	Category      string   `yaml:"category"`
	Tags          []string `yaml:"tags"`
	InStock       *bool    `yaml:"inStock"`
	Rating        *float64 `yaml:"rating"`
	ReviewCount   *int     `yaml:"reviewCount"`
	Featured      bool     `yaml:"featured"`
	Status        string   `yaml:"status"`
}

type UserFixture struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Parse decodes a YAML fixture and checks the references inside it.
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	categories := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		if c.Name == "" || c.Slug == "" {
			return fmt.Errorf("categories[%d]: name and slug are required", i)
		}
		if c.Parent != "" && !categories[c.Parent] {
			return fmt.Errorf("categories[%d]: parent %q must be declared before it", i, c.Parent)
		}
		categories[c.Slug] = true
	}

	for i, p := range f.Products {
		if p.Name == "" || p.Slug == "" {
			return fmt.Errorf("products[%d]: name and slug are required", i)
		}
		if _, err := decimal.NewFromString(p.Price); err != nil {
			return fmt.Errorf("products[%d]: invalid price %q", i, p.Price)
		}
		if p.OriginalPrice != "" {
			if _, err := decimal.NewFromString(p.OriginalPrice); err != nil {
				return fmt.Errorf("products[%d]: invalid originalPrice %q", i, p.OriginalPrice)
			}
		}
		if p.Category != "" && !categories[p.Category] {
			return fmt.Errorf("products[%d]: unknown category %q", i, p.Category)
		}
	}

	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: email and password are required", i)
		}
	}
	return nil
}

func (p ProductFixture) tagsColumn() string {
	return strings.Join(p.Tags, ",")
}
