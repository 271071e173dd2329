package dto

import apperrors "storefront/internal/errors"

type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

func NewPagination(total, limit, offset int) *Pagination {
	return &Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

type ErrorResponse struct {
	Success bool                         `json:"success"`
	Error   string                       `json:"error"`
	Code    string                       `json:"code"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}
