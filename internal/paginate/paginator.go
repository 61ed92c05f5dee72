// Package paginate splits an ordered slice into numbered pages.
//
// Page numbers are 1-based. Paginator.Page performs a strict lookup and
// reports ErrPageNotAnInteger or ErrEmptyPage; Paginator.GetPage is the
// tolerant variant used by pages that should never fail on a bad ?page=
// value.
package paginate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPage is the parent of every page lookup error.
	ErrInvalidPage = errors.New("invalid page")
	// ErrPageNotAnInteger is returned when the page number does not parse.
	ErrPageNotAnInteger = fmt.Errorf("%w: that page number is not an integer", ErrInvalidPage)
	// ErrEmptyPage is returned when the page number is out of range.
	ErrEmptyPage = fmt.Errorf("%w: that page contains no results", ErrInvalidPage)

	errLessThanOne = &rangeError{msg: "that page number is less than 1"}
)

// rangeError is an ErrEmptyPage with a more specific reason.
type rangeError struct{ msg string }

func (e *rangeError) Error() string { return ErrInvalidPage.Error() + ": " + e.msg }
func (e *rangeError) Unwrap() error { return ErrEmptyPage }

// Reason returns the user facing text of a page lookup error, such as
// "That page contains no results".
func Reason(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrInvalidPage.Error()+": ")
	if msg == "" {
		return ""
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// Ellipsis marks an elided run of page numbers in ElidedPageRange.
const Ellipsis = 0

// Paginator divides items into pages of PerPage elements.
type Paginator[T any] struct {
	items               []T
	perPage             int
	orphans             int
	allowEmptyFirstPage bool
}

// Option configures a Paginator.
type Option func(*options)

type options struct {
	orphans             int
	allowEmptyFirstPage bool
}

// WithOrphans folds a trailing page of at most n items into the previous page.
func WithOrphans(n int) Option {
	return func(o *options) { o.orphans = n }
}

// WithAllowEmptyFirstPage controls whether page 1 exists for an empty list.
func WithAllowEmptyFirstPage(allow bool) Option {
	return func(o *options) { o.allowEmptyFirstPage = allow }
}

// New creates a paginator over items. perPage values below 1 are treated as 1.
func New[T any](items []T, perPage int, opts ...Option) *Paginator[T] {
	o := options{allowEmptyFirstPage: true}
	for _, opt := range opts {
		opt(&o)
	}
	if perPage < 1 {
		perPage = 1
	}
	if o.orphans < 0 {
		o.orphans = 0
	}
	return &Paginator[T]{
		items:               items,
		perPage:             perPage,
		orphans:             o.orphans,
		allowEmptyFirstPage: o.allowEmptyFirstPage,
	}
}

// Count returns the total number of items.
func (p *Paginator[T]) Count() int { return len(p.items) }

// PerPage returns the configured page size.
func (p *Paginator[T]) PerPage() int { return p.perPage }

// NumPages returns the total number of pages.
func (p *Paginator[T]) NumPages() int {
	count := p.Count()
	if count == 0 && !p.allowEmptyFirstPage {
		return 0
	}
	hits := count - p.orphans
	if hits < 1 {
		hits = 1
	}
	return (hits + p.perPage - 1) / p.perPage
}

// PageRange returns 1..NumPages.
func (p *Paginator[T]) PageRange() []int {
	n := p.NumPages()
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ValidateNumber parses raw and checks it is a valid page number. Integers
// too large for int are out of range, not malformed.
func (p *Paginator[T]) ValidateNumber(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(s, "-") {
			return 0, errLessThanOne
		}
		return 0, ErrEmptyPage
	}
	if err != nil {
		return 0, ErrPageNotAnInteger
	}
	return p.validate(n)
}

func (p *Paginator[T]) validate(n int) (int, error) {
	if n < 1 {
		return 0, errLessThanOne
	}
	if n > p.NumPages() {
		if n == 1 && p.allowEmptyFirstPage {
			return n, nil
		}
		return 0, ErrEmptyPage
	}
	return n, nil
}

// Page returns page n, failing with ErrEmptyPage when out of range.
func (p *Paginator[T]) Page(n int) (*Page[T], error) {
	n, err := p.validate(n)
	if err != nil {
		return nil, err
	}
	bottom := (n - 1) * p.perPage
	top := bottom + p.perPage
	if top+p.orphans >= p.Count() {
		top = p.Count()
	}
	if bottom > top {
		bottom = top
	}
	return &Page[T]{Items: p.items[bottom:top], Number: n, paginator: p}, nil
}

// PageString is Page with the number given as text. The value "last"
// selects the final page.
func (p *Paginator[T]) PageString(raw string) (*Page[T], error) {
	if strings.TrimSpace(raw) == "last" {
		return p.Page(p.NumPages())
	}
	n, err := p.ValidateNumber(raw)
	if err != nil {
		return nil, err
	}
	return p.Page(n)
}

// GetPage is the tolerant lookup: a non-integer selects the first page and
// an out of range number selects the last page.
func (p *Paginator[T]) GetPage(raw string) *Page[T] {
	n, err := p.ValidateNumber(raw)
	switch {
	case errors.Is(err, ErrPageNotAnInteger):
		n = 1
	case errors.Is(err, ErrEmptyPage):
		n = p.NumPages()
	}
	page, err := p.Page(n)
	if err != nil {
		// Only reachable with zero pages (empty list, no empty first page).
		return &Page[T]{Number: 1, paginator: p}
	}
	return page
}

// ElidedPageRange returns page numbers around number with onEachSide
// neighbours and onEnds pages at both extremes. Gaps are marked with
// Ellipsis.
func (p *Paginator[T]) ElidedPageRange(number, onEachSide, onEnds int) []int {
	numPages := p.NumPages()
	if numPages <= (onEachSide+onEnds)*2 {
		return p.PageRange()
	}

	var out []int
	appendRange := func(from, to int) {
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
	}

	if number > 1+onEachSide+onEnds+1 {
		appendRange(1, onEnds)
		out = append(out, Ellipsis)
		appendRange(number-onEachSide, number)
	} else {
		appendRange(1, number)
	}

	if number < numPages-onEachSide-onEnds-1 {
		appendRange(number+1, number+onEachSide)
		out = append(out, Ellipsis)
		appendRange(numPages-onEnds+1, numPages)
	} else {
		appendRange(number+1, numPages)
	}
	return out
}
