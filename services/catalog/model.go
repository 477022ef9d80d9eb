package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	UID         string
	Name        string
	Description string
	Price       decimal.Decimal
}

func (p Product) FormattedPrice() string {
	return p.Price.StringFixed(2)
}

// ProductRecord is the persisted form of a Product. The price is kept as a
// decimal string: datastore and json both handle it without losing digits.
type ProductRecord struct {
	UID         string
	Name        string
	Description string `datastore:",noindex"`
	Price       string `datastore:",noindex"`
}

func (r ProductRecord) toProduct() (Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return Product{}, fmt.Errorf("product %s has invalid price %q: %w", r.UID, r.Price, err)
	}
	return Product{
		UID:         r.UID,
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
	}, nil
}

func recordFromProduct(p Product) ProductRecord {
	return ProductRecord{
		UID:         p.UID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
	}
}

type ProductListPageInfo struct {
	Products []Product
}
