package domain

// ProductFilter narrows the customer-facing product listing. Nil flags do not filter.
type ProductFilter struct {
	CategorySlug string
	Featured     *bool
	InStock      *bool
	Limit        int
	Offset       int
	SortBy       string
	SortOrder    string
}

type ProductSearch struct {
	Term   string
	Limit  int
	Offset int
}
