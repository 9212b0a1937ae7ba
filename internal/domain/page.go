package domain

// PaginationParams carries page/limit values from the HTTP layer to the repo
// layer. Page is 1-indexed. A zero Limit means no limit, so listings stay
// whole unless the caller opts in to paging.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items per page. Zero means unlimited.
	Limit int
}

// maxPageLimit caps the per-page size to prevent runaway queries.
const maxPageLimit = 200

// NewPaginationParams builds a PaginationParams from raw HTTP query values.
// Zero or negative inputs fall back to page 1 / no limit.
func NewPaginationParams(page, limit int) PaginationParams {
	p := PaginationParams{Page: 1}
	if page >= 1 {
		p.Page = page
	}
	if limit >= 1 {
		p.Limit = limit
		if p.Limit > maxPageLimit {
			p.Limit = maxPageLimit
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	if p.Limit == 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
