package cart

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/services/catalog"
	"github.com/MarcGrol/shopcart/services/session"
)

func (s *service) openCart(c context.Context, sess *session.Session) (*Cart, error) {
	cart, err := New(sess, s.resolver)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	return cart, nil
}

func (s *service) getCartDetails(c context.Context, sess *session.Session) (CartDetailPageInfo, error) {
	s.logger.Log(c, sess.UID, mylog.SeverityInfo, "Fetch cart of session %s", sess.UID)

	cart, err := s.openCart(c, sess)
	if err != nil {
		return CartDetailPageInfo{}, err
	}

	items, err := cart.Items(c)
	if err != nil {
		return CartDetailPageInfo{}, myerrors.NewInternalError(err)
	}

	return CartDetailPageInfo{
		Items:           items,
		Count:           cart.Count(),
		TotalPrice:      cart.TotalPrice(),
		QuantityChoices: quantityChoices(),
	}, nil
}

func (s *service) addProduct(c context.Context, sess *session.Session, productUID string, values url.Values) error {
	product, err := s.resolveProduct(c, productUID)
	if err != nil {
		return err
	}

	form, err := NewAddProductFormFromValues(values)
	if err != nil {
		return err
	}

	s.logger.Log(c, sess.UID, mylog.SeverityInfo, "Add %d x product %s to cart (override: %v)", form.Quantity, productUID, form.Override)

	cart, err := s.openCart(c, sess)
	if err != nil {
		return err
	}

	err = cart.Add(product, form.Quantity, form.Override)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func (s *service) removeProduct(c context.Context, sess *session.Session, productUID string) error {
	product, err := s.resolveProduct(c, productUID)
	if err != nil {
		return err
	}

	s.logger.Log(c, sess.UID, mylog.SeverityInfo, "Remove product %s from cart", productUID)

	cart, err := s.openCart(c, sess)
	if err != nil {
		return err
	}

	err = cart.Remove(product)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func (s *service) clearCart(c context.Context, sess *session.Session) error {
	s.logger.Log(c, sess.UID, mylog.SeverityInfo, "Clear cart of session %s", sess.UID)

	cart, err := s.openCart(c, sess)
	if err != nil {
		return err
	}
	cart.Clear()

	return nil
}

func (s *service) resolveProduct(c context.Context, productUID string) (catalog.Product, error) {
	product, found, err := s.resolver.Resolve(c, productUID)
	if err != nil {
		return catalog.Product{}, myerrors.NewInternalError(err)
	}
	if !found {
		return catalog.Product{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}
	return product, nil
}
