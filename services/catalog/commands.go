package catalog

import (
	"context"
	"sort"

	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/mylog"
)

func (s *service) Resolve(c context.Context, productUID string) (Product, bool, error) {
	record, found, err := s.productStore.Get(c, productUID)
	if err != nil {
		return Product{}, false, myerrors.NewInternalError(err)
	}
	if !found {
		return Product{}, false, nil
	}

	product, err := record.toProduct()
	if err != nil {
		return Product{}, false, myerrors.NewInternalError(err)
	}

	return product, true, nil
}

func (s *service) ResolveMany(c context.Context, productUIDs []string) (map[string]Product, error) {
	products := make(map[string]Product, len(productUIDs))
	for _, uid := range productUIDs {
		if _, done := products[uid]; done {
			continue
		}

		product, found, err := s.Resolve(c, uid)
		if err != nil {
			return nil, err
		}
		if !found {
			s.logger.Log(c, uid, mylog.SeverityWarn, "Product %s no longer in catalog", uid)
			continue
		}
		products[uid] = product
	}

	return products, nil
}

func (s *service) listProducts(c context.Context) ([]Product, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all products")

	records, err := s.productStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	products := make([]Product, 0, len(records))
	for _, r := range records {
		p, err := r.toProduct()
		if err != nil {
			return nil, myerrors.NewInternalError(err)
		}
		products = append(products, p)
	}

	// TODO sort in database
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// seed fills an empty catalog with the demo assortment. Existing products are left alone.
func (s *service) seed(c context.Context, products []Product) error {
	return s.productStore.RunInTransaction(c, func(c context.Context) error {
		existing, err := s.productStore.List(c)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if len(existing) > 0 {
			return nil
		}

		s.logger.Log(c, "", mylog.SeverityInfo, "Seeding catalog with %d products", len(products))

		for _, p := range products {
			err = s.productStore.Put(c, p.UID, recordFromProduct(p))
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}
		return nil
	})
}
