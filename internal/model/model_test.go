package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Rounds up on third digit nine", input: "49.999", expected: "50.00"},
		{name: "Rounds down below half", input: "49.994", expected: "49.99"},
		{name: "Half rounds away from zero", input: "10.005", expected: "10.01"},
		{name: "Pads whole numbers", input: "12", expected: "12.00"},
		{name: "Pads single decimal", input: "3.5", expected: "3.50"},
		{name: "Keeps two decimals", input: "0.25", expected: "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrice(decimal.RequireFromString(tt.input))
			assert.Equal(t, tt.expected, p.String())
		})
	}
}

func TestPrice_JSON(t *testing.T) {
	p := MustParsePrice("49.5")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "49.50", string(data))

	var quoted Price
	require.NoError(t, json.Unmarshal([]byte(`"19.99"`), &quoted))
	assert.True(t, quoted.Equal(decimal.RequireFromString("19.99")))

	var bare Price
	require.NoError(t, json.Unmarshal([]byte(`7.1`), &bare))
	assert.Equal(t, "7.10", bare.String())
}

func TestProduct_JSONFieldNames(t *testing.T) {
	product := Product{ID: "abc", Category: "Shoes", Name: "Runner", Price: MustParsePrice("50"), Image: "http://x/y.png"}

	data, err := json.Marshal(product)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "id")
	assert.Contains(t, raw, "category")
	assert.Contains(t, raw, "name")
	assert.Contains(t, raw, "image")
	assert.Equal(t, "50.00", string(raw["price"]))
}

func TestDomainError_Is(t *testing.T) {
	fieldErr := NewValidationError("name is required")

	assert.True(t, errors.Is(fieldErr, ErrValidationFailed))
	assert.False(t, errors.Is(fieldErr, ErrProductNotFound))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", ErrInvalidPage), ErrInvalidPage))
}

func TestRepositoryError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRepositoryError("list", cause)

	assert.True(t, errors.Is(err, ErrRepositoryFailure))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrProductNotFound))
	assert.Contains(t, err.Error(), "list")
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "Invalid identifier", err: ErrInvalidIdentifier, expected: ErrCodeInvalidIdentifier},
		{name: "Wrapped not found", err: fmt.Errorf("get: %w", ErrProductNotFound), expected: ErrCodeProductNotFound},
		{name: "Repository failure", err: NewRepositoryError("get", errors.New("boom")), expected: ErrCodeRepositoryFailure},
		{name: "Unknown", err: errors.New("boom"), expected: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCode(tt.err))
		})
	}
}
