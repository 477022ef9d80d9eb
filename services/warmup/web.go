package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcart/lib/mycontext"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/myhttp"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/services/catalog"
)

type webService struct {
	logger       mylog.Logger
	productStore mystore.Store[catalog.ProductRecord]
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(productStore mystore.Store[catalog.ProductRecord]) *webService {
	return &webService{
		logger:       mylog.New("warmup"),
		productStore: productStore,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

// warmupPage opens the connection to the product store before the first visitor arrives
func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		products, err := s.productStore.List(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(err))
			return
		}

		s.logger.Log(c, "", mylog.SeverityInfo, "Warmed up with %d products", len(products))

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
