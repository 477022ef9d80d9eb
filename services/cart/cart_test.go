package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopcart/services/catalog"
)

var (
	productA = catalog.Product{UID: "A", Name: "Tennis balls", Price: decimal.RequireFromString("10.50")}
	productB = catalog.Product{UID: "B", Name: "Running cap", Price: decimal.RequireFromString("20.00")}
	productC = catalog.Product{UID: "C", Name: "Hoody", Price: decimal.RequireFromString("80.00")}
)

func TestCartConstruction(t *testing.T) {

	t.Run("Empty session gets empty cart written", func(t *testing.T) {
		sess := newFakeSession("")

		cart, err := New(sess, nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, cart.Len())
		assert.True(t, sess.Contains(SessionKey))
		assert.True(t, sess.Modified())
		raw, _ := sess.Get(SessionKey)
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("Existing cart is adopted without writing", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)

		cart, err := New(sess, nil)

		assert.NoError(t, err)
		assert.False(t, sess.Modified())
		item, found := cart.Get("A")
		assert.True(t, found)
		assert.Equal(t, 2, item.Quantity)
		assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("10.50")))
	})

	t.Run("Stored entries without quantity are dropped", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":0,"preco":"10.50"},"B":{"quantidade":1,"preco":"20.00"}}`)

		cart, err := New(sess, nil)

		assert.NoError(t, err)
		assert.Equal(t, 1, cart.Len())
		_, found := cart.Get("A")
		assert.False(t, found)
	})

	t.Run("Corrupt price", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":1,"preco":"ten"}}`)

		_, err := New(sess, nil)

		assert.Error(t, err)
	})

	t.Run("Corrupt cart", func(t *testing.T) {
		sess := newFakeSession(`[1,2,3]`)

		_, err := New(sess, nil)

		assert.Error(t, err)
	})
}

func TestCartMutations(t *testing.T) {

	t.Run("Add to empty cart", func(t *testing.T) {
		sess := newFakeSession("")
		cart, _ := New(sess, nil)

		err := cart.Add(productA, 2, false)

		assert.NoError(t, err)
		item, found := cart.Get("A")
		assert.True(t, found)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, "10.50", item.UnitPrice.StringFixed(2))
		assert.Equal(t, 2, cart.Count())
		assert.Equal(t, "21.00", cart.TotalPrice().StringFixed(2))
		raw, _ := sess.Get(SessionKey)
		assert.JSONEq(t, `{"A":{"quantidade":2,"preco":"10.50"}}`, string(raw))
	})

	t.Run("Add merges quantity", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)
		cart, _ := New(sess, nil)

		err := cart.Add(productA, 3, false)

		assert.NoError(t, err)
		item, _ := cart.Get("A")
		assert.Equal(t, 5, item.Quantity)
		assert.True(t, sess.Modified())
	})

	t.Run("Add with override replaces quantity", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)
		cart, _ := New(sess, nil)

		err := cart.Add(productA, 3, true)

		assert.NoError(t, err)
		item, _ := cart.Get("A")
		assert.Equal(t, 3, item.Quantity)
		raw, _ := sess.Get(SessionKey)
		assert.JSONEq(t, `{"A":{"quantidade":3,"preco":"10.50"}}`, string(raw))
	})

	t.Run("Override on new product", func(t *testing.T) {
		cart, _ := New(newFakeSession(""), nil)

		cart.Add(productA, 4, true)

		item, _ := cart.Get("A")
		assert.Equal(t, 4, item.Quantity)
	})

	t.Run("Repeated adds sum up and take last price", func(t *testing.T) {
		cart, _ := New(newFakeSession(""), nil)

		quantities := []int{1, 4, 2, 7}
		prices := []string{"10.50", "11.00", "9.99", "12.25"}
		for i, q := range quantities {
			p := productA
			p.Price = decimal.RequireFromString(prices[i])
			assert.NoError(t, cart.Add(p, q, false))
		}

		item, _ := cart.Get("A")
		assert.Equal(t, 14, item.Quantity)
		assert.Equal(t, "12.25", item.UnitPrice.StringFixed(2))
	})

	t.Run("Merge with unchanged price keeps price", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)
		cart, _ := New(sess, nil)

		cart.Add(productA, 1, false)

		item, _ := cart.Get("A")
		assert.Equal(t, "10.50", item.UnitPrice.StringFixed(2))
		assert.Equal(t, "31.50", cart.TotalPrice().StringFixed(2))
	})

	t.Run("Merge with changed price refreshes price", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)
		cart, _ := New(sess, nil)

		cheaper := productA
		cheaper.Price = decimal.RequireFromString("9.75")
		cart.Add(cheaper, 1, false)

		item, _ := cart.Get("A")
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, "9.75", item.UnitPrice.StringFixed(2))
		assert.Equal(t, "29.25", cart.TotalPrice().StringFixed(2))
		raw, _ := sess.Get(SessionKey)
		assert.JSONEq(t, `{"A":{"quantidade":3,"preco":"9.75"}}`, string(raw))
	})

	t.Run("Override to zero drops entry", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)
		cart, _ := New(sess, nil)

		cart.Add(productA, 0, true)

		assert.Equal(t, 0, cart.Len())
		raw, _ := sess.Get(SessionKey)
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("Remove product in cart", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"},"B":{"quantidade":1,"preco":"20.00"}}`)
		cart, _ := New(sess, nil)

		err := cart.Remove(productA)

		assert.NoError(t, err)
		_, found := cart.Get("A")
		assert.False(t, found)
		item, found := cart.Get("B")
		assert.True(t, found)
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, 1, cart.Count())
		raw, _ := sess.Get(SessionKey)
		assert.JSONEq(t, `{"B":{"quantidade":1,"preco":"20.00"}}`, string(raw))
	})

	t.Run("Remove product not in cart", func(t *testing.T) {
		sess := newFakeSession(`{"B":{"quantidade":1,"preco":"20.00"}}`)
		cart, _ := New(sess, nil)

		err := cart.Remove(productA)

		assert.NoError(t, err)
		assert.Equal(t, 1, cart.Len())
		assert.False(t, sess.Modified())
	})

	t.Run("Save is idempotent", func(t *testing.T) {
		sess := newFakeSession(`{"B":{"quantidade":1,"preco":"20.00"}}`)
		cart, _ := New(sess, nil)

		assert.NoError(t, cart.Save())
		first, _ := sess.Get(SessionKey)
		assert.NoError(t, cart.Save())
		second, _ := sess.Get(SessionKey)

		assert.JSONEq(t, string(first), string(second))
		assert.True(t, sess.Modified())
	})

	t.Run("Clear removes session entry", func(t *testing.T) {
		sess := newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`)
		cart, _ := New(sess, nil)

		cart.Clear()

		assert.False(t, sess.Contains(SessionKey))
		assert.True(t, sess.Modified())
		assert.Equal(t, 0, cart.Count())

		again, err := New(sess, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, again.Len())
		assert.True(t, sess.Contains(SessionKey))
	})

	t.Run("Clear without cart entry", func(t *testing.T) {
		sess := newFakeSession(`{}`)
		cart, _ := New(sess, nil)
		cart.Clear()
		sess.modified = false

		cart.Clear()

		assert.False(t, sess.Contains(SessionKey))
		assert.False(t, sess.Modified())
	})
}

func TestCartTotals(t *testing.T) {

	t.Run("Empty cart", func(t *testing.T) {
		cart, _ := New(newFakeSession(""), nil)

		assert.Equal(t, 0, cart.Count())
		assert.True(t, cart.TotalPrice().Equal(decimal.Zero))
	})

	t.Run("Two products", func(t *testing.T) {
		cart, _ := New(newFakeSession(""), nil)
		cart.Add(productA, 2, false)
		cart.Add(productB, 1, false)

		assert.Equal(t, 3, cart.Count())
		assert.Equal(t, "41.00", cart.TotalPrice().StringFixed(2))
	})

	t.Run("No floating point drift", func(t *testing.T) {
		cart, _ := New(newFakeSession(""), nil)
		dime := catalog.Product{UID: "D", Name: "Dime", Price: decimal.RequireFromString("0.10")}
		cent := catalog.Product{UID: "E", Name: "Cent", Price: decimal.RequireFromString("0.01")}
		cart.Add(dime, 3, false)
		cart.Add(cent, 7, false)

		assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("0.37")))
	})
}

func TestCartIteration(t *testing.T) {
	c := context.TODO()

	t.Run("Yields one record per product sorted by name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(""), resolver)
		cart.Add(productA, 2, false)
		cart.Add(productB, 1, false)
		cart.Add(productC, 3, false)

		resolver.EXPECT().ResolveMany(gomock.Any(), []string{"A", "B", "C"}).Return(map[string]catalog.Product{
			"A": productA, "B": productB, "C": productC,
		}, nil)

		items, err := cart.Items(c)

		assert.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, []string{"Hoody", "Running cap", "Tennis balls"}, []string{items[0].Product.Name, items[1].Product.Name, items[2].Product.Name})
		for _, item := range items {
			assert.True(t, item.PriceTotal.Equal(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		}
		assert.Equal(t, "21.00", items[2].PriceTotal.StringFixed(2))
	})

	t.Run("Uses price stored in cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(`{"A":{"quantidade":2,"preco":"10.50"}}`), resolver)

		repriced := productA
		repriced.Price = decimal.RequireFromString("99.00")
		resolver.EXPECT().ResolveMany(gomock.Any(), []string{"A"}).Return(map[string]catalog.Product{"A": repriced}, nil)

		items, err := cart.Items(c)

		assert.NoError(t, err)
		assert.Equal(t, "10.50", items[0].Price.StringFixed(2))
		assert.Equal(t, "21.00", items[0].PriceTotal.StringFixed(2))
	})

	t.Run("Restart reflects current items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(""), resolver)
		cart.Add(productA, 1, false)

		resolver.EXPECT().ResolveMany(gomock.Any(), []string{"A"}).Return(map[string]catalog.Product{"A": productA}, nil)
		resolver.EXPECT().ResolveMany(gomock.Any(), []string{"A", "B"}).Return(map[string]catalog.Product{"A": productA, "B": productB}, nil)

		seq := cart.All(c)
		first := 0
		for _, err := range seq {
			assert.NoError(t, err)
			first++
		}

		cart.Add(productB, 1, false)
		second := 0
		for _, err := range seq {
			assert.NoError(t, err)
			second++
		}

		assert.Equal(t, 1, first)
		assert.Equal(t, 2, second)
	})

	t.Run("Stops early", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(""), resolver)
		cart.Add(productA, 1, false)
		cart.Add(productB, 1, false)

		resolver.EXPECT().ResolveMany(gomock.Any(), gomock.Any()).Return(map[string]catalog.Product{"A": productA, "B": productB}, nil)

		seen := 0
		for range cart.All(c) {
			seen++
			break
		}
		assert.Equal(t, 1, seen)
	})

	t.Run("Skips products gone from catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(""), resolver)
		cart.Add(productA, 1, false)
		cart.Add(productB, 1, false)

		resolver.EXPECT().ResolveMany(gomock.Any(), []string{"A", "B"}).Return(map[string]catalog.Product{"B": productB}, nil)

		items, err := cart.Items(c)

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "B", items[0].Product.UID)
	})

	t.Run("Empty cart does not look up", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(""), resolver)

		items, err := cart.Items(c)

		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Lookup failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := catalog.NewMockProductResolver(ctrl)
		cart, _ := New(newFakeSession(""), resolver)
		cart.Add(productA, 1, false)

		resolver.EXPECT().ResolveMany(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("catalog down"))

		_, err := cart.Items(c)

		assert.EqualError(t, err, "catalog down")
	})
}

func TestExactString(t *testing.T) {
	assert.Equal(t, "10.50", exactString(decimal.RequireFromString("10.50")))
	assert.Equal(t, "20", exactString(decimal.RequireFromString("20")))
	assert.Equal(t, "0.125", exactString(decimal.RequireFromString("0.125")))
}

// fakeSession starts out clean, as if just loaded from the session store
type fakeSession struct {
	values   map[string]json.RawMessage
	modified bool
}

func newFakeSession(wire string) *fakeSession {
	s := &fakeSession{values: map[string]json.RawMessage{}}
	if wire != "" {
		s.values[SessionKey] = json.RawMessage(wire)
	}
	return s
}

func (s *fakeSession) Get(key string) (json.RawMessage, bool) {
	raw, found := s.values[key]
	return raw, found
}

func (s *fakeSession) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	s.modified = true
	return nil
}

func (s *fakeSession) Contains(key string) bool {
	_, found := s.values[key]
	return found
}

func (s *fakeSession) Delete(key string) {
	delete(s.values, key)
	s.modified = true
}

func (s *fakeSession) MarkModified() {
	s.modified = true
}

func (s *fakeSession) Modified() bool {
	return s.modified
}
