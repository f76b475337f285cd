package query

// Sort is the ordering applied to a product listing.
type Sort int

const (
	// SortNatural leaves ordering to the store.
	SortNatural Sort = iota
	// SortPriceAsc orders by price, lowest first.
	SortPriceAsc
	// SortPriceDesc orders by price, highest first.
	SortPriceDesc
)

// Price sort tokens accepted in the "price" query parameter.
const (
	PriceHighest = "highest"
	PriceLowest  = "lowest"
)

func (s Sort) String() string {
	switch s {
	case SortPriceAsc:
		return "price_asc"
	case SortPriceDesc:
		return "price_desc"
	default:
		return "natural"
	}
}

// Filters are the caller-supplied listing constraints.
type Filters struct {
	Category  string
	PriceSort string
}

// Descriptor is an immutable description of a product listing query.
// Repositories translate it into their native query language.
type Descriptor struct {
	category string
	sort     Sort
	skip     int64
	limit    int64
}

// Build translates filters into a Descriptor. An empty category matches every
// product; an unknown price token leaves the store's natural order.
func Build(f Filters) Descriptor {
	d := Descriptor{category: f.Category}

	switch f.PriceSort {
	case PriceHighest:
		d.sort = SortPriceDesc
	case PriceLowest:
		d.sort = SortPriceAsc
	default:
		d.sort = SortNatural
	}

	return d
}

// Paginate returns a copy of d restricted to window w.
func (d Descriptor) Paginate(w Window) Descriptor {
	d.skip = w.Skip
	d.limit = w.Limit
	return d
}

// Category returns the case-insensitive substring constraint on the product
// category and whether one is set.
func (d Descriptor) Category() (string, bool) {
	return d.category, d.category != ""
}

// Sort returns the requested ordering.
func (d Descriptor) Sort() Sort {
	return d.sort
}

// Skip returns the number of matching products to skip.
func (d Descriptor) Skip() int64 {
	return d.skip
}

// Limit returns the maximum number of products to return; zero means no limit.
func (d Descriptor) Limit() int64 {
	return d.limit
}
