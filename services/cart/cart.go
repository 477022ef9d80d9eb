package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/shopcart/services/catalog"
)

// SessionKey is the session entry holding the cart of the visitor.
const SessionKey = "cart"

// Session is what the cart needs from the visitor session.
type Session interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value any) error
	Contains(key string) bool
	Delete(key string)
	MarkModified()
}

// Cart is a view over the cart entry of one session. It lives for the
// duration of a single request and is not safe for concurrent use.
// Every mutation writes the complete item map back to the session.
type Cart struct {
	session  Session
	resolver catalog.ProductResolver
	items    map[string]LineItem
}

// New hydrates the cart from the session. A session without a cart gets an
// empty one written to it straight away.
func New(session Session, resolver catalog.ProductResolver) (*Cart, error) {
	cart := &Cart{
		session:  session,
		resolver: resolver,
		items:    map[string]LineItem{},
	}

	raw, found := session.Get(SessionKey)
	if !found {
		err := cart.Save()
		if err != nil {
			return nil, err
		}
		return cart, nil
	}

	items, err := decodeItems(raw)
	if err != nil {
		return nil, err
	}
	cart.items = items

	return cart, nil
}

// Add puts quantity units of product in the cart. For a product already in
// the cart the quantity is added to the existing one, or replaces it when
// overrideQuantity is set. The unit price is taken from product on every call.
func (c *Cart) Add(product catalog.Product, quantity int, overrideQuantity bool) error {
	item, found := c.items[product.UID]
	switch {
	case !found:
		item = LineItem{Quantity: quantity}
	case overrideQuantity:
		item.Quantity = quantity
	default:
		item.Quantity += quantity
	}
	item.UnitPrice = product.Price

	if item.Quantity > 0 {
		c.items[product.UID] = item
	} else {
		delete(c.items, product.UID)
	}

	return c.Save()
}

// Remove drops the product from the cart. Removing a product that is not in
// the cart is a no-op.
func (c *Cart) Remove(product catalog.Product) error {
	if _, found := c.items[product.UID]; !found {
		return nil
	}

	delete(c.items, product.UID)

	return c.Save()
}

// Save writes the items to the session and flags the session for persistence.
func (c *Cart) Save() error {
	err := c.session.Set(SessionKey, encodeItems(c.items))
	if err != nil {
		return fmt.Errorf("error storing cart in session: %w", err)
	}
	c.session.MarkModified()
	return nil
}

// Clear removes the cart entry from the session altogether.
func (c *Cart) Clear() {
	c.items = map[string]LineItem{}
	if !c.session.Contains(SessionKey) {
		return
	}
	c.session.Delete(SessionKey)
	c.session.MarkModified()
}

func (c *Cart) Get(productUID string) (LineItem, bool) {
	item, found := c.items[productUID]
	return item, found
}

// Len is the number of distinct products.
func (c *Cart) Len() int {
	return len(c.items)
}

// Count is the total number of units.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// All yields the line items joined with their products, ordered by product
// name. Each run looks at the items as they are at that moment and resolves
// all products with a single lookup. Products that no longer exist in the
// catalog are skipped.
func (c *Cart) All(ctx context.Context) iter.Seq2[EnrichedLineItem, error] {
	return func(yield func(EnrichedLineItem, error) bool) {
		if len(c.items) == 0 {
			return
		}

		uids := make([]string, 0, len(c.items))
		for uid := range c.items {
			uids = append(uids, uid)
		}
		sort.Strings(uids)

		products, err := c.resolver.ResolveMany(ctx, uids)
		if err != nil {
			yield(EnrichedLineItem{}, err)
			return
		}

		lines := make([]EnrichedLineItem, 0, len(uids))
		for _, uid := range uids {
			product, found := products[uid]
			if !found {
				continue
			}
			item := c.items[uid]
			lines = append(lines, EnrichedLineItem{
				Product:    product,
				Price:      item.UnitPrice,
				Quantity:   item.Quantity,
				PriceTotal: item.TotalPrice(),
			})
		}
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].Product.Name < lines[j].Product.Name
		})

		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
	}
}

// Items collects one run of All.
func (c *Cart) Items(ctx context.Context) ([]EnrichedLineItem, error) {
	lines := []EnrichedLineItem{}
	for line, err := range c.All(ctx) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func encodeItems(items map[string]LineItem) map[string]wireLineItem {
	wire := make(map[string]wireLineItem, len(items))
	for uid, item := range items {
		wire[uid] = wireLineItem{
			Quantity: item.Quantity,
			Price:    exactString(item.UnitPrice),
		}
	}
	return wire
}

func decodeItems(raw json.RawMessage) (map[string]LineItem, error) {
	wire := map[string]wireLineItem{}
	err := json.Unmarshal(raw, &wire)
	if err != nil {
		return nil, fmt.Errorf("error decoding cart from session: %w", err)
	}

	items := make(map[string]LineItem, len(wire))
	for uid, w := range wire {
		if w.Quantity <= 0 {
			continue
		}
		price, err := decimal.NewFromString(w.Price)
		if err != nil {
			return nil, fmt.Errorf("error decoding price of product %s in cart: %w", uid, err)
		}
		items[uid] = LineItem{
			Quantity:  w.Quantity,
			UnitPrice: price,
		}
	}
	return items, nil
}

// exactString keeps the digits the price was given with: 10.50 stays "10.50".
func exactString(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}
