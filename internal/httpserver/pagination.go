package httpserver

import "strconv"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func paginate(page, size int) (offset, limit int) {
	if size > maxPageSize {
		size = maxPageSize
	}
	return (page - 1) * size, size
}

func pagedResponse(items any, page, limit, offset int, total int64) map[string]any {
	return map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}
