package cart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcart/lib/mycontext"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/myhttp"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/services/catalog"
	"github.com/MarcGrol/shopcart/services/session"
)

const cartDetailURL = "/cart/"

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(resolver catalog.ProductResolver) *webService {
	logger := mylog.New("cart")
	return &webService{
		service: newService(resolver, logger),
		logger:  logger,
	}
}

// RegisterEndpoints expects the router to run the session middleware.
func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/cart/", s.cartDetailPage()).Methods("GET")
	router.HandleFunc("/cart/add/{productId}/", s.addProductPage()).Methods("POST")
	router.HandleFunc("/cart/remove/{productId}/", s.removeProductPage()).Methods("POST")
	router.HandleFunc("/cart/clear/", s.clearCartPage()).Methods("POST")

	router.HandleFunc("/api/cart", s.cartDetailAPI()).Methods("GET")
}

//go:embed templates
var templateFolder embed.FS
var (
	cartDetailPageTemplate *template.Template
)

func init() {
	cartDetailPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/cart_detail.html"))
}

func sessionFromContext(c context.Context) (*session.Session, error) {
	sess, found := session.FromContext(c)
	if !found {
		return nil, myerrors.NewInternalError(fmt.Errorf("no session in request context"))
	}
	return sess, nil
}

func (s *webService) cartDetailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sess, err := sessionFromContext(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		details, err := s.service.getCartDetails(c, sess)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = cartDetailPageTemplate.Execute(w, details)
		if err != nil {
			errorWriter.WriteError(c, w, 3, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) addProductPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sess, err := sessionFromContext(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		productUID := mux.Vars(r)["productId"]

		err = s.service.addProduct(c, sess, productUID, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, cartDetailURL, http.StatusFound)
	}
}

func (s *webService) removeProductPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sess, err := sessionFromContext(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		productUID := mux.Vars(r)["productId"]

		err = s.service.removeProduct(c, sess, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, cartDetailURL, http.StatusFound)
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sess, err := sessionFromContext(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = s.service.clearCart(c, sess)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, cartDetailURL, http.StatusFound)
	}
}

func (s *webService) cartDetailAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sess, err := sessionFromContext(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		details, err := s.service.getCartDetails(c, sess)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		resp := CartResponse{
			Items:      []CartLineResponse{},
			Count:      details.Count,
			TotalPrice: details.TotalPrice.StringFixed(2),
		}
		for _, item := range details.Items {
			resp.Items = append(resp.Items, CartLineResponse{
				ProductUID: item.Product.UID,
				Name:       item.Product.Name,
				Quantity:   item.Quantity,
				Price:      item.Price.StringFixed(2),
				PriceTotal: item.PriceTotal.StringFixed(2),
			})
		}

		errorWriter.Write(c, w, http.StatusOK, resp)
	}
}
