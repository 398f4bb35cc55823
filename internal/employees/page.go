// ABOUTME: Client-side pagination of a loaded employee list
// ABOUTME: Page sizes match the list screen's size selector

package employees

import "github.com/markalston/employee-console/internal/client"

// PageSizes are the selectable page sizes
var PageSizes = []int{5, 10, 20}

// DefaultPageSize is used when no size is chosen
const DefaultPageSize = 10

// PageView is one page of a list
type PageView struct {
	Items []client.Employee
	// Index is the zero-based page shown after clamping
	Index int
	Size  int
	Pages int
	Total int
}

// HasPrev reports whether an earlier page exists
func (p PageView) HasPrev() bool { return p.Index > 0 }

// HasNext reports whether a later page exists
func (p PageView) HasNext() bool { return p.Index+1 < p.Pages }

// Page slices items into the page at index. Out-of-range indexes clamp
// to the nearest page; a non-positive size uses DefaultPageSize.
func Page(items []client.Employee, index, size int) PageView {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if index >= pages {
		index = pages - 1
	}
	if index < 0 {
		index = 0
	}

	start := index * size
	end := min(start+size, total)
	return PageView{
		Items: items[start:end],
		Index: index,
		Size:  size,
		Pages: pages,
		Total: total,
	}
}

// NextPageSize cycles through PageSizes
func NextPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return DefaultPageSize
}
