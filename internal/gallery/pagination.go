package gallery

// Page describes one slice of a sorted candidate list.
type Page struct {
	Page       int
	PerPage    int
	TotalPages int
	// Start and End bound the slice as [Start, End). Start == End for an
	// empty page.
	Start int
	End   int
}

// Paginate computes the page window for total items. perPage is floored to
// 1 and page is clamped into [1, TotalPages]; with no pages only a page
// below 1 is raised, and the window is empty.
func Paginate(total, page, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	if page < 1 {
		page = 1
	} else if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	// With no pages the requested page is echoed and the window stays empty.
	var start, end int
	if totalPages > 0 {
		start = (page - 1) * perPage
		end = min(start+perPage, total)
	}

	return Page{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}
