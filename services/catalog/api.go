package catalog

import "context"

//go:generate mockgen -source=api.go -package catalog -destination resolver_mock.go ProductResolver
type ProductResolver interface {
	Resolve(c context.Context, productUID string) (Product, bool, error)
	// ResolveMany returns the products that exist; unknown uids are absent from the result
	ResolveMany(c context.Context, productUIDs []string) (map[string]Product, error)
}
