package paginate

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestNumPages(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		perPage int
		opts    []Option
		want    int
	}{
		{"people fixture", 234, 10, nil, 24},
		{"exact multiple", 20, 10, nil, 2},
		{"single item", 1, 10, nil, 1},
		{"empty allowed", 0, 10, nil, 1},
		{"empty not allowed", 0, 10, []Option{WithAllowEmptyFirstPage(false)}, 0},
		{"orphans fold last page", 23, 10, []Option{WithOrphans(3)}, 2},
		{"orphans below threshold", 24, 10, []Option{WithOrphans(3)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(ints(tt.count), tt.perPage, tt.opts...)
			assert.Equal(t, tt.want, p.NumPages())
		})
	}
}

func TestFirstAndLastPageSizes(t *testing.T) {
	p := New(ints(234), 10)

	first, err := p.Page(1)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Items[0])
	assert.Equal(t, 1, first.StartIndex())
	assert.Equal(t, 10, first.EndIndex())
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())

	last, err := p.Page(24)
	require.NoError(t, err)
	assert.Len(t, last.Items, 4)
	assert.Equal(t, []int{231, 232, 233, 234}, last.Items)
	assert.Equal(t, 231, last.StartIndex())
	assert.Equal(t, 234, last.EndIndex())
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())

	_, err = last.NextPageNumber()
	assert.ErrorIs(t, err, ErrEmptyPage)
	prev, err := last.PreviousPageNumber()
	require.NoError(t, err)
	assert.Equal(t, 23, prev)
}

func TestOrphansFoldIntoLastPage(t *testing.T) {
	p := New(ints(23), 10, WithOrphans(3))

	last, err := p.Page(2)
	require.NoError(t, err)
	assert.Len(t, last.Items, 13)
	assert.Equal(t, 23, last.EndIndex())
}

func TestPageStrictLookup(t *testing.T) {
	p := New(ints(234), 10)

	_, err := p.Page(0)
	assert.ErrorIs(t, err, ErrEmptyPage)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = p.Page(25)
	assert.ErrorIs(t, err, ErrEmptyPage)

	_, err = p.PageString("99999999999999999999")
	assert.ErrorIs(t, err, ErrEmptyPage)
	assert.NotErrorIs(t, err, ErrPageNotAnInteger)

	_, err = p.PageString("abc")
	assert.ErrorIs(t, err, ErrPageNotAnInteger)
	assert.NotErrorIs(t, err, ErrEmptyPage)

	last, err := p.PageString("last")
	require.NoError(t, err)
	assert.Equal(t, 24, last.Number)

	page, err := p.PageString(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Number)
}

func TestGetPageTolerantLookup(t *testing.T) {
	p := New(ints(234), 10)

	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"7", 7},
		{"abc", 1},
		{"2.5", 1},
		{"0", 24},
		{"-3", 24},
		{"999", 24},
		{"99999999999999999999", 24},
		{"-99999999999999999999", 24},
		{"24", 24},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, p.GetPage(tt.raw).Number)
		})
	}
}

func TestEmptyList(t *testing.T) {
	p := New([]int{}, 10)

	page := p.GetPage("5")
	assert.Equal(t, 1, page.Number)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.StartIndex())
	assert.Equal(t, 0, page.EndIndex())
	assert.False(t, page.HasOtherPages())

	strict := New([]int{}, 10, WithAllowEmptyFirstPage(false))
	_, err := strict.Page(1)
	assert.ErrorIs(t, err, ErrEmptyPage)
	assert.Empty(t, strict.GetPage("1").Items)
}

func TestPerPageClamped(t *testing.T) {
	p := New(ints(3), 0)
	assert.Equal(t, 1, p.PerPage())
	assert.Equal(t, 3, p.NumPages())
}

func TestElidedPageRange(t *testing.T) {
	p := New(ints(234), 10)

	assert.Equal(t, []int{1, 2, 3, 4, 0, 23, 24}, p.ElidedPageRange(1, 3, 2))
	assert.Equal(t, []int{1, 2, 0, 9, 10, 11, 12, 13, 14, 15, 0, 23, 24}, p.ElidedPageRange(12, 3, 2))
	assert.Equal(t, []int{1, 2, 0, 21, 22, 23, 24}, p.ElidedPageRange(24, 3, 2))

	small := New(ints(50), 10)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, small.ElidedPageRange(3, 3, 2))
}

func TestPageBindings(t *testing.T) {
	p := New(ints(234), 10)
	page := p.GetPage("2")

	b := page.Bindings(func(i int) map[string]any { return map[string]any{"id": i} })

	assert.Equal(t, 2, b["number"])
	assert.Equal(t, 3, b["next_page_number"])
	assert.Equal(t, 1, b["previous_page_number"])
	assert.Equal(t, true, b["has_other_pages"])
	items := b["object_list"].([]map[string]any)
	require.Len(t, items, 10)
	assert.Equal(t, 11, items[0]["id"])
	assert.Equal(t, 24, b["paginator"].(map[string]any)["num_pages"])

	first := p.GetPage("1").Bindings(func(i int) map[string]any { return nil })
	_, ok := first["previous_page_number"]
	assert.False(t, ok)
}

func TestPageString(t *testing.T) {
	p := New(ints(234), 10)
	assert.Equal(t, "<Page 3 of 24>", p.GetPage("3").String())
}

func TestValidateNumber(t *testing.T) {
	p := New(ints(234), 10)

	n, err := p.ValidateNumber(" +3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = p.ValidateNumber("2.5")
	assert.ErrorIs(t, err, ErrPageNotAnInteger)
	_, err = p.ValidateNumber("0")
	assert.ErrorIs(t, err, ErrEmptyPage)
	_, err = p.ValidateNumber("25")
	assert.ErrorIs(t, err, ErrEmptyPage)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestReason(t *testing.T) {
	p := New(ints(234), 10)

	_, err := p.PageString("0")
	assert.Equal(t, "That page number is less than 1", Reason(err))
	_, err = p.PageString("-99999999999999999999")
	assert.Equal(t, "That page number is less than 1", Reason(err))
	_, err = p.PageString("25")
	assert.Equal(t, "That page contains no results", Reason(err))
	_, err = p.PageString("x")
	assert.Equal(t, "That page number is not an integer", Reason(err))
}
