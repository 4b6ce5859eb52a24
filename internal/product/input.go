package product

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their form names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// CreateForm is the admin "Add Product" form as submitted. Every field is
// required; values are not range checked.
type CreateForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price" validate:"required"`
	Category    string `form:"category" validate:"required"`
	ImageURL    string `form:"image_url" validate:"required"`
	Stock       string `form:"stock" validate:"required"`
}

// Request checks presence of every field and converts price to a float and
// stock to an integer.
func (f CreateForm) Request() (CreateRequest, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Price = strings.TrimSpace(f.Price)
	f.Stock = strings.TrimSpace(f.Stock)

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return CreateRequest{}, fmt.Errorf("missing required fields: %s", strings.Join(fields, ", "))
		}
		return CreateRequest{}, err
	}

	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return CreateRequest{}, fmt.Errorf("price %q is not a number", f.Price)
	}
	stock, err := strconv.Atoi(f.Stock)
	if err != nil {
		return CreateRequest{}, fmt.Errorf("stock %q is not a whole number", f.Stock)
	}

	return CreateRequest{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Category:    f.Category,
		ImageURL:    f.ImageURL,
		Stock:       stock,
	}, nil
}
