package query

import (
	"fmt"
	"testing"

	"productlist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name         string
		page         string
		expectedSkip int64
		expectedPage int64
	}{
		{name: "Absent page defaults to first", page: "", expectedSkip: 0, expectedPage: 1},
		{name: "First page", page: "1", expectedSkip: 0, expectedPage: 1},
		{name: "Second page", page: "2", expectedSkip: 9, expectedPage: 2},
		{name: "Tenth page", page: "10", expectedSkip: 81, expectedPage: 10},
		{name: "Surrounding whitespace", page: " 3 ", expectedSkip: 18, expectedPage: 3},
		{name: "Integral decimal", page: "2.0", expectedSkip: 9, expectedPage: 2},
		{name: "Trailing zero fraction", page: "4.000", expectedSkip: 27, expectedPage: 4},
		{name: "Exponent notation", page: "1e1", expectedSkip: 81, expectedPage: 10},
		{name: "Negative exponent resolving to integer", page: "30e-1", expectedSkip: 18, expectedPage: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ComputeWindow(tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, w.Page)
			assert.Equal(t, tt.expectedSkip, w.Skip)
			assert.Equal(t, int64(PageSize), w.Limit)
		})
	}
}

func TestComputeWindow_SkipFormula(t *testing.T) {
	for page := int64(1); page <= 200; page++ {
		w, err := ComputeWindow(fmt.Sprint(page))

		require.NoError(t, err)
		assert.Equal(t, 9*(page-1), w.Skip)
		assert.Equal(t, int64(9), w.Limit)
	}
}

func TestComputeWindow_Invalid(t *testing.T) {
	for _, page := range []string{"0", "0.0", "-1", "-20", "-2.0", "1.5", "1e-1", "abc", "1e", "9223372036854775807", "99999999999999999999", "1e19", "1e200000000", "1e-200000000"} {
		t.Run(page, func(t *testing.T) {
			w, err := ComputeWindow(page)

			assert.ErrorIs(t, err, model.ErrInvalidPage)
			assert.Equal(t, Window{}, w)
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name             string
		filters          Filters
		expectedCategory string
		expectedHasCat   bool
		expectedSort     Sort
	}{
		{name: "No filters", filters: Filters{}, expectedSort: SortNatural},
		{name: "Category only", filters: Filters{Category: "shoe"}, expectedCategory: "shoe", expectedHasCat: true, expectedSort: SortNatural},
		{name: "Highest price", filters: Filters{PriceSort: "highest"}, expectedSort: SortPriceDesc},
		{name: "Lowest price", filters: Filters{PriceSort: "lowest"}, expectedSort: SortPriceAsc},
		{name: "Unknown token", filters: Filters{PriceSort: "cheapest"}, expectedSort: SortNatural},
		{name: "Tokens are case-sensitive", filters: Filters{PriceSort: "HIGHEST"}, expectedSort: SortNatural},
		{name: "Category and sort", filters: Filters{Category: "Hats", PriceSort: "lowest"}, expectedCategory: "Hats", expectedHasCat: true, expectedSort: SortPriceAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Build(tt.filters)

			category, ok := d.Category()
			assert.Equal(t, tt.expectedCategory, category)
			assert.Equal(t, tt.expectedHasCat, ok)
			assert.Equal(t, tt.expectedSort, d.Sort())
			assert.Zero(t, d.Skip())
			assert.Zero(t, d.Limit())
		})
	}
}

func TestDescriptor_PaginateIsImmutable(t *testing.T) {
	base := Build(Filters{Category: "shoe", PriceSort: "highest"})
	w, err := ComputeWindow("3")
	require.NoError(t, err)

	paged := base.Paginate(w)

	assert.Equal(t, int64(18), paged.Skip())
	assert.Equal(t, int64(9), paged.Limit())
	assert.Zero(t, base.Skip())
	assert.Zero(t, base.Limit())
	assert.Equal(t, base.Sort(), paged.Sort())
}

func TestSort_String(t *testing.T) {
	assert.Equal(t, "natural", SortNatural.String())
	assert.Equal(t, "price_asc", SortPriceAsc.String())
	assert.Equal(t, "price_desc", SortPriceDesc.String())
}
