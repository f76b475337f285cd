package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of fractional digits every stored price carries.
const PricePlaces = 2

// Product represents a catalogue item.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Category  string    `json:"category" db:"category"`
	Name      string    `json:"name" db:"name"`
	Price     Price     `json:"price" db:"price"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Price is a decimal amount that always renders with two fractional digits.
type Price struct {
	decimal.Decimal
}

// NewPrice rounds d half away from zero to two decimal places.
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d.Round(PricePlaces)}
}

// MustParsePrice parses s into a normalised Price and panics on malformed input.
// Intended for tests and fixtures.
func MustParsePrice(s string) Price {
	return NewPrice(decimal.RequireFromString(s))
}

// String returns the price with exactly two decimal digits.
func (p Price) String() string {
	return p.StringFixed(PricePlaces)
}

// MarshalJSON encodes the price as a JSON number with two decimal digits.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(PricePlaces)), nil
}

// UnmarshalJSON accepts both quoted and bare JSON numbers.
func (p *Price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}

// CreateProductRequest is the payload for POST /products.
// The validate tags are the single declaration of the creation field contract.
type CreateProductRequest struct {
	Category string          `json:"category" validate:"required,max=255"`
	Name     string          `json:"name" validate:"required,max=255"`
	Price    decimal.Decimal `json:"price" validate:"required,gt=0,lt=100000000"`
	ImageURL string          `json:"imageUrl" validate:"required"`
}

// ListParams carries the raw list query parameters.
type ListParams struct {
	Page      string
	Category  string
	PriceSort string
}

// DeleteConfirmation describes a removed product.
type DeleteConfirmation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
