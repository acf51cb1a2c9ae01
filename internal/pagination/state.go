package pagination

// ListState tracks the query state of one list surface: active filter tab,
// search term, page size and offset. Transitions follow the same rules on
// every surface so no view can render an out-of-range page.
type ListState struct {
	Filter   string
	Search   string
	PageSize int
	Offset   int
}

// NewListState returns a state on the first page with the given page size.
func NewListState(pageSize int) ListState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ListState{PageSize: pageSize}
}

// DefaultPageSize applies when a surface has no persisted preference.
const DefaultPageSize = 10

// SetFilter switches the active filter/tab/category. Always resets the offset
// and clears any in-progress search term.
func (s ListState) SetFilter(filter string) ListState {
	s.Filter = filter
	s.Search = ""
	s.Offset = 0
	return s
}

// SetSearch updates the search term and returns to the first page.
func (s ListState) SetSearch(term string) ListState {
	s.Search = term
	s.Offset = 0
	return s
}

// SetPageSize changes the page size and always resets the offset to 0.
func (s ListState) SetPageSize(pageSize int) ListState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s.PageSize = pageSize
	s.Offset = 0
	return s
}

// SetOffset moves to the requested offset; Apply clamps it against the list.
func (s ListState) SetOffset(offset int) ListState {
	if offset < 0 {
		offset = 0
	}
	s.Offset = offset
	return s
}

// Apply paginates the full list under the current state, clamping the stored
// offset to a valid page.
func Apply[T any](s ListState, full []T) (Page[T], ListState) {
	page := Paginate(full, s.PageSize, s.Offset)
	s.Offset = page.Offset
	return page, s
}
