package catalog

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcart/lib/mycontext"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/myhttp"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mystore"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[ProductRecord]) *webService {
	logger := mylog.New("catalog")
	return &webService{
		service: newService(store, logger),
		logger:  logger,
	}
}

// Resolver exposes the product lookup used by the cart.
func (s *webService) Resolver() ProductResolver {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/", s.productListPage()).Methods("GET")
	router.HandleFunc("/products/", s.productListPage()).Methods("GET")

	err := s.service.seed(c, DemoProducts())
	if err != nil {
		return err
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	productListPageTemplate *template.Template
)

func init() {
	productListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/product_list.html"))
}

func (s *webService) productListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		products, err := s.service.listProducts(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = productListPageTemplate.Execute(w, ProductListPageInfo{
			Products: products,
		})
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}
