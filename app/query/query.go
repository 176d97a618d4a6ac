// Package query holds the read-side helpers behind the moderation views:
// status filtering, page slicing and per-status counts. Everything is
// recomputed from the slice it is given; nothing is cached.
package query

// All is the status filter that matches every item.
const All = "all"

// Statused is implemented by entities that carry a moderation status.
type Statused interface {
	StatusString() string
}

// Page is one slice of a filtered collection plus the numbers needed to
// render pagination controls.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FilterByStatus returns the items whose status equals status. All or an
// empty status returns every item. The result never aliases items.
func FilterByStatus[T Statused](items []T, status string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if status == All || status == "" || item.StatusString() == status {
			out = append(out, item)
		}
	}
	return out
}

// Paginate returns the 1-based page of size pageSize. Pages past the end, or
// a non-positive page or pageSize, yield an empty slice rather than an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// TotalPages is ceil(total/pageSize); zero when there is nothing to show.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// NewPage filters nothing; it slices items and fills in the totals.
func NewPage[T any](items []T, page, pageSize int) Page[T] {
	return Page[T]{
		Items:      Paginate(items, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		Total:      len(items),
		TotalPages: TotalPages(len(items), pageSize),
	}
}

// CountsByStatus counts items per status. The result always has an All key
// and a key for every status in statuses, zero when absent.
func CountsByStatus[T Statused](items []T, statuses ...string) map[string]int {
	counts := make(map[string]int, len(statuses)+1)
	for _, s := range statuses {
		counts[s] = 0
	}
	counts[All] = len(items)
	for _, item := range items {
		counts[item.StatusString()]++
	}
	return counts
}

// ClampPage pulls page into [1, totalPages]; with no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
