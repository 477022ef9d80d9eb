package cart

import (
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/services/catalog"
)

type service struct {
	resolver catalog.ProductResolver
	logger   mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(resolver catalog.ProductResolver, logger mylog.Logger) *service {
	return &service{
		resolver: resolver,
		logger:   logger,
	}
}
