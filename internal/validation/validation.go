package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"productlist/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Bounds checked before any arithmetic on a caller-supplied price. A decimal
// carries an arbitrary int32 exponent, and converting or rounding it scales the
// coefficient by that power of ten.
const (
	minPriceExponent        = -20
	maxPriceExponent        = 10
	maxPriceCoefficientBits = 128
)

// maxPrice is the largest value a NUMERIC(10,2) column holds.
var maxPrice = model.MustParsePrice("99999999.99")

func boundedPrice(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= minPriceExponent &&
		exp <= maxPriceExponent &&
		d.Coefficient().BitLen() <= maxPriceCoefficientBits
}

// instance returns the shared validator. Field errors report JSON names and
// decimals are compared as float64 so numeric tags (gt, lt) apply to them.
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			if !boundedPrice(d) {
				return math.NaN()
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{})
	})
	return validate
}

// Struct validates v against its validate tags. The first violated rule is
// reported as a ValidationFailed domain error.
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate: %w", err)
	}

	return model.NewValidationError(describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// NormalizeCreateRequest trims text fields and validates the request against
// the creation field contract. On success it returns the product to persist,
// with the price rounded to two decimal digits.
func NormalizeCreateRequest(req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.ErrValidationFailed
	}
	if !boundedPrice(req.Price) {
		return nil, model.NewValidationError("price is out of range")
	}

	normalized := model.CreateProductRequest{
		Category: strings.TrimSpace(req.Category),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		ImageURL: strings.TrimSpace(req.ImageURL),
	}
	if err := Struct(&normalized); err != nil {
		return nil, err
	}

	price := model.NewPrice(normalized.Price)
	if !price.IsPositive() {
		return nil, model.NewValidationError("price must be at least 0.01")
	}
	if price.GreaterThan(maxPrice.Decimal) {
		return nil, model.NewValidationError("price must be at most " + maxPrice.String())
	}

	return &model.Product{
		Category: normalized.Category,
		Name:     normalized.Name,
		Price:    price,
		Image:    normalized.ImageURL,
	}, nil
}
