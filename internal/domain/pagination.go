package domain

// PaginationParams carries page-based pagination, 1-indexed.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the number of items to skip.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
