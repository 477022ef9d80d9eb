package cart

import (
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/shopcart/services/catalog"
)

type LineItem struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

func (li LineItem) TotalPrice() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// EnrichedLineItem is a line item joined with its catalog product.
type EnrichedLineItem struct {
	Product    catalog.Product
	Price      decimal.Decimal
	Quantity   int
	PriceTotal decimal.Decimal
}

// wireLineItem is the representation inside the session:
// {"<productUID>": {"quantidade": 2, "preco": "10.50"}}
type wireLineItem struct {
	Quantity int    `json:"quantidade"`
	Price    string `json:"preco"`
}

type CartDetailPageInfo struct {
	Items           []EnrichedLineItem
	Count           int
	TotalPrice      decimal.Decimal
	QuantityChoices []int
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	Count      int                `json:"count"`
	TotalPrice string             `json:"totalPrice"`
}

type CartLineResponse struct {
	ProductUID string `json:"productUid"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
	PriceTotal string `json:"priceTotal"`
}
