package catalog

import (
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mystore"
)

type service struct {
	productStore mystore.Store[ProductRecord]
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[ProductRecord], logger mylog.Logger) *service {
	return &service{
		productStore: store,
		logger:       logger,
	}
}
