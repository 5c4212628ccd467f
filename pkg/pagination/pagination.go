package pagination

// Result holds one page of an ordered result set together with paging
// metadata. An empty source still reports exactly one (empty) page so
// consumers never render "page 0 of 0".
type Result[T any] struct {
	Slice      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// Page slices items deterministically. The requested page is clamped to
// [1, totalPages] so a stale page number from a shrunken result set never
// produces an out-of-range slice.
func Page[T any](items []T, page, pageSize int) Result[T] {
	if pageSize <= 0 {
		pageSize = 20
	}
	totalCount := len(items)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	return Result[T]{
		Slice:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}
}
