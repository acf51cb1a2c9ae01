// Package pagination implements the offset-based pagination shared by every
// list surface. It is pure: callers own persistence of page-size preferences.
package pagination

// Page is the derived view over a full list.
type Page[T any] struct {
	Items     []T `json:"items"`
	PageCount int `json:"pageCount"`
	Offset    int `json:"offset"`
	Total     int `json:"total"`
}

// Clamp returns the offset aligned to a valid page for a list of the given
// length. When offset runs past the end (the list shrank under a filter), it
// realigns to the start of the last full page; an empty list resets to 0.
func Clamp(length, pageSize, offset int) int {
	if pageSize <= 0 || length <= 0 {
		return 0
	}
	if offset < 0 {
		offset = 0
	}
	maxValid := length - pageSize
	if maxValid < 0 {
		maxValid = 0
	}
	if offset > maxValid {
		offset = maxValid - maxValid%pageSize
	}
	return offset
}

// Paginate derives the visible slice, page count and clamped offset.
func Paginate[T any](full []T, pageSize, offset int) Page[T] {
	if pageSize <= 0 {
		pageSize = 1
	}
	offset = Clamp(len(full), pageSize, offset)

	end := offset + pageSize
	if end > len(full) {
		end = len(full)
	}
	pageCount := (len(full) + pageSize - 1) / pageSize

	return Page[T]{
		Items:     full[offset:end],
		PageCount: pageCount,
		Offset:    offset,
		Total:     len(full),
	}
}
