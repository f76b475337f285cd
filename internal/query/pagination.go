package query

import (
	"math"
	"strconv"
	"strings"

	"productlist/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// PageSize is the fixed number of products per listing page.
	PageSize = 9

	// DefaultPage is used when the page parameter is absent.
	DefaultPage = 1

	// maxPage keeps PageSize*(page-1) inside int64.
	maxPage = math.MaxInt64/PageSize + 1

	// maxPageExponent bounds numeric page notation; 10^19 already exceeds maxPage.
	maxPageExponent = 19
	maxPageBits     = 128
)

// Window is the (skip, limit) slice of a result set returned for one page.
type Window struct {
	Page  int64
	Skip  int64
	Limit int64
}

// ComputeWindow validates the raw page parameter and returns its window.
// An empty parameter selects DefaultPage. Integral values written in decimal
// or exponent notation ("2.0", "1e1") are accepted. Negative, zero, fractional
// and non-numeric pages are rejected with model.ErrInvalidPage.
func ComputeWindow(pageParam string) (Window, error) {
	pageParam = strings.TrimSpace(pageParam)
	if pageParam == "" {
		return windowFor(DefaultPage), nil
	}

	page, err := strconv.ParseInt(pageParam, 10, 64)
	if err != nil {
		page, err = parseIntegralPage(pageParam)
		if err != nil {
			return Window{}, err
		}
	}
	if page < 1 || page > maxPage {
		return Window{}, model.ErrInvalidPage
	}

	return windowFor(page), nil
}

func parseIntegralPage(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, model.ErrInvalidPage
	}

	exp := d.Exponent()
	if exp < -maxPageExponent || exp > maxPageExponent || d.Coefficient().BitLen() > maxPageBits {
		return 0, model.ErrInvalidPage
	}
	if !d.IsInteger() || d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(decimal.NewFromInt(maxPage)) {
		return 0, model.ErrInvalidPage
	}

	return d.IntPart(), nil
}

func windowFor(page int64) Window {
	return Window{
		Page:  page,
		Skip:  PageSize * (page - 1),
		Limit: PageSize,
	}
}
