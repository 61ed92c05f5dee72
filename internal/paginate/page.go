package paginate

import "fmt"

// Page is one slice of a Paginator's items.
type Page[T any] struct {
	Items     []T
	Number    int
	paginator *Paginator[T]
}

// Paginator returns the paginator that produced the page.
func (p *Page[T]) Paginator() *Paginator[T] { return p.paginator }

// Len returns the number of items on the page.
func (p *Page[T]) Len() int { return len(p.Items) }

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool { return p.Number < p.paginator.NumPages() }

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasOtherPages reports whether there is more than one page.
func (p *Page[T]) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

// NextPageNumber returns the following page number.
func (p *Page[T]) NextPageNumber() (int, error) {
	return p.paginator.validate(p.Number + 1)
}

// PreviousPageNumber returns the preceding page number.
func (p *Page[T]) PreviousPageNumber() (int, error) {
	return p.paginator.validate(p.Number - 1)
}

// StartIndex returns the 1-based index of the first item on the page, or 0
// when there are no items at all.
func (p *Page[T]) StartIndex() int {
	if p.paginator.Count() == 0 {
		return 0
	}
	return p.paginator.perPage*(p.Number-1) + 1
}

// EndIndex returns the 1-based index of the last item on the page.
func (p *Page[T]) EndIndex() int {
	if p.Number == p.paginator.NumPages() {
		return p.paginator.Count()
	}
	return p.Number * p.paginator.perPage
}

func (p *Page[T]) String() string {
	return fmt.Sprintf("<Page %d of %d>", p.Number, p.paginator.NumPages())
}

// Bindings flattens the page into plain maps and slices for templates. bind
// converts each item.
func (p *Page[T]) Bindings(bind func(T) map[string]any) map[string]any {
	items := make([]map[string]any, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, bind(item))
	}

	elided := p.paginator.ElidedPageRange(p.Number, 3, 2)
	pageLinks := make([]map[string]any, 0, len(elided))
	for _, n := range elided {
		pageLinks = append(pageLinks, map[string]any{
			"number":   n,
			"ellipsis": n == Ellipsis,
			"current":  n == p.Number,
		})
	}

	b := map[string]any{
		"number":          p.Number,
		"object_list":     items,
		"has_next":        p.HasNext(),
		"has_previous":    p.HasPrevious(),
		"has_other_pages": p.HasOtherPages(),
		"start_index":     p.StartIndex(),
		"end_index":       p.EndIndex(),
		"page_links":      pageLinks,
		"paginator": map[string]any{
			"count":     p.paginator.Count(),
			"num_pages": p.paginator.NumPages(),
			"per_page":  p.paginator.perPage,
		},
	}
	if n, err := p.NextPageNumber(); err == nil {
		b["next_page_number"] = n
	}
	if n, err := p.PreviousPageNumber(); err == nil {
		b["previous_page_number"] = n
	}
	return b
}
