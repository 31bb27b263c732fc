package dto

// ListQuery carries the pagination and ordering parameters shared by every list endpoint
type ListQuery struct {
	Offset int    `form:"offset,default=0" json:"offset" binding:"gte=0"`
	Limit  int    `form:"limit,default=10" json:"limit" binding:"gte=1,lte=100"`
	SortBy string `form:"sort_by,default=id" json:"sort_by" binding:"max=50"`
	Order  string `form:"order,default=asc" json:"order" binding:"oneof=asc desc"`
}

// PaginatedResponse is one page of items plus the total matching the same filter
type PaginatedResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// NewPaginatedResponse builds a page; items is never serialized as null
func NewPaginatedResponse[T any](items []T, total int64, query ListQuery) PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PaginatedResponse[T]{
		Items:  items,
		Total:  total,
		Offset: query.Offset,
		Limit:  query.Limit,
	}
}
