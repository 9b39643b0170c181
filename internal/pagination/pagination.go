// Package pagination slices an ordered result set into fixed-size pages.
//
// The queries in this application return full ordered sequences (a feed is
// small enough to hold in memory) and the handler picks one page of it for
// rendering. Keeping this as a pure function — slice in, page out — means
// it needs no store access and is trivially testable.
package pagination

// PageSize is the fixed number of items per page, a system-wide constant.
const PageSize = 10

// Page is one fixed-size, 1-indexed window over an ordered sequence, plus
// the metadata templates need to render pager links.
type Page[T any] struct {
	Items       []T
	Number      int // 1-indexed page number after clamping
	TotalPages  int // at least 1, even for an empty sequence
	HasNext     bool
	HasPrevious bool
}

// Paginate returns page `number` of items.
//
// CLAMPING, NOT FAILING:
// A page number is user input (?page=7 in the URL), so bad values are
// forgiven rather than rejected:
//   - number < 1 (including the "absent or unparsable" default of 0)
//     clamps to the first page
//   - number past the end clamps to the last page
//
// An empty sequence yields a single empty page (Number=1, TotalPages=1),
// so templates never deal with a zero-page result.
func Paginate[T any](items []T, number int) Page[T] {
	totalPages := (len(items) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * PageSize
	end := start + PageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:       items[start:end],
		Number:      number,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
