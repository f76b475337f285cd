package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"productlist/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "Valid lower-case ObjectID", input: "5f2b6c1e9d3a4b0012345678", expected: "5f2b6c1e9d3a4b0012345678"},
		{name: "Upper-case is canonicalised", input: "5F2B6C1E9D3A4B0012ABCDEF", expected: "5f2b6c1e9d3a4b0012abcdef"},
		{name: "Empty", input: "", expectError: true},
		{name: "Not hexadecimal", input: "not-a-valid-id", expectError: true},
		{name: "Too short", input: "5f2b6c1e9d3a4b001234567", expectError: true},
		{name: "Too long", input: "5f2b6c1e9d3a4b00123456789", expectError: true},
		{name: "Non-hex character", input: "5f2b6c1e9d3a4b001234567z", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseIdentifier(tt.input)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrInvalidIdentifier))
				assert.Empty(t, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, id)
			}
		})
	}
}

func TestNewIdentifier(t *testing.T) {
	id := NewIdentifier()

	parsed, err := ParseIdentifier(id)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.NotEqual(t, id, NewIdentifier())
}

func TestNormalizeCreateRequest(t *testing.T) {
	valid := func() *model.CreateProductRequest {
		return &model.CreateProductRequest{
			Category: "Shoes",
			Name:     "Runner",
			Price:    decimal.RequireFromString("49.999"),
			ImageURL: "http://x/y.png",
		}
	}

	tests := []struct {
		name        string
		mutate      func(r *model.CreateProductRequest)
		expectError string
	}{
		{name: "Valid request", mutate: func(r *model.CreateProductRequest) {}},
		{name: "Missing category", mutate: func(r *model.CreateProductRequest) { r.Category = "" }, expectError: "category is required"},
		{name: "Blank name", mutate: func(r *model.CreateProductRequest) { r.Name = "   " }, expectError: "name is required"},
		{name: "Missing image", mutate: func(r *model.CreateProductRequest) { r.ImageURL = "" }, expectError: "imageUrl is required"},
		{name: "Zero price", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.Zero }, expectError: "price"},
		{name: "Negative price", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.NewFromInt(-5) }, expectError: "price must be greater than 0"},
		{name: "Price rounds to zero", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.RequireFromString("0.004") }, expectError: "price must be at least 0.01"},
		{name: "Name too long", mutate: func(r *model.CreateProductRequest) { r.Name = strings.Repeat("n", 256) }, expectError: "name must be at most 255 characters"},
		{name: "Price too large", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.NewFromInt(100000000) }, expectError: "price must be less than"},
		{name: "Price rounds past column limit", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.RequireFromString("99999999.999") }, expectError: "price must be at most 99999999.99"},
		{name: "Huge exponent", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.New(1, 200000000) }, expectError: "price is out of range"},
		{name: "Tiny exponent", mutate: func(r *model.CreateProductRequest) { r.Price = decimal.New(1, -200000000) }, expectError: "price is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)

			product, err := NormalizeCreateRequest(req)

			if tt.expectError != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrValidationFailed))
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, product)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Shoes", product.Category)
			assert.Equal(t, "Runner", product.Name)
			assert.Equal(t, "50.00", product.Price.String())
			assert.Equal(t, "http://x/y.png", product.Image)
			assert.Empty(t, product.ID)
		})
	}
}

func TestNormalizeCreateRequest_ExtremeExponentsFromJSON(t *testing.T) {
	for _, raw := range []string{"1e200000000", "1e-200000000", "-7e2000000"} {
		t.Run(raw, func(t *testing.T) {
			var req model.CreateProductRequest
			body := `{"category":"Shoes","name":"Runner","imageUrl":"http://x/y.png","price":` + raw + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &req))

			done := make(chan error, 1)
			go func() {
				_, err := NormalizeCreateRequest(&req)
				done <- err
			}()

			select {
			case err := <-done:
				assert.ErrorIs(t, err, model.ErrValidationFailed)
			case <-time.After(2 * time.Second):
				t.Fatal("normalising an extreme exponent did not return promptly")
			}
		})
	}
}

func TestStruct_UnboundedPriceFailsValidation(t *testing.T) {
	err := Struct(&model.CreateProductRequest{
		Category: "Shoes",
		Name:     "Runner",
		Price:    decimal.New(5, 200000000),
		ImageURL: "http://x/y.png",
	})

	assert.ErrorIs(t, err, model.ErrValidationFailed)
}

func TestNormalizeCreateRequest_TrimsText(t *testing.T) {
	product, err := NormalizeCreateRequest(&model.CreateProductRequest{
		Category: "  Shoes ",
		Name:     "\tRunner\n",
		Price:    decimal.RequireFromString("49.994"),
		ImageURL: " http://x/y.png ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Shoes", product.Category)
	assert.Equal(t, "Runner", product.Name)
	assert.Equal(t, "49.99", product.Price.String())
	assert.False(t, strings.ContainsAny(product.Image, " \t\n"))
}

func TestNormalizeCreateRequest_Nil(t *testing.T) {
	product, err := NormalizeCreateRequest(nil)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, model.ErrValidationFailed)
}
