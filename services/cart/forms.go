package cart

import (
	"fmt"
	"net/url"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/shopcart/lib/myerrors"
)

const (
	MinQuantity     = 1
	MaxQuantity     = 20
	DefaultQuantity = 1
)

type AddProductForm struct {
	Quantity int
	Override bool
}

type addProductRequest struct {
	Quantity *int `form:"quantidade"`
	Override bool `form:"override"`
}

func NewAddProductFormFromValues(values url.Values) (AddProductForm, error) {
	req := addProductRequest{}
	err := formcodec.NewDecoder().Decode(&req, values)
	if err != nil {
		return AddProductForm{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	form := AddProductForm{
		Quantity: DefaultQuantity,
		Override: req.Override,
	}
	if req.Quantity != nil {
		form.Quantity = *req.Quantity
	}

	if form.Quantity < MinQuantity || form.Quantity > MaxQuantity {
		return AddProductForm{}, myerrors.NewInvalidInputErrorf("quantidade must be between %d and %d, got %d", MinQuantity, MaxQuantity, form.Quantity)
	}

	return form, nil
}

func quantityChoices() []int {
	choices := make([]int, 0, MaxQuantity-MinQuantity+1)
	for q := MinQuantity; q <= MaxQuantity; q++ {
		choices = append(choices, q)
	}
	return choices
}
