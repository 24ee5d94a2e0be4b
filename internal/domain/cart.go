package domain

// ItemKey identifies a cart line. The same product added in a different size
// or color is a separate line.
type ItemKey struct {
	ProductID string
	Size      string
	Color     string
}

type CartItem struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     Price  `json:"price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

func (i CartItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

// Cart is the ordered list of items a shopper has picked, keyed by
// (product id, size, color).
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add appends item to the cart. An existing line with the same key absorbs
// the new quantity instead of producing a duplicate row.
func (c *Cart) Add(item CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	key := item.Key()
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of the line identified by key. Quantities
// below 1 remove the line. Returns false when no such line exists.
func (c *Cart) UpdateQuantity(key ItemKey, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			if quantity < 1 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return true
		}
	}
	return false
}

// Remove deletes the line identified by key. Returns false when no such line
// exists.
func (c *Cart) Remove(key ItemKey) bool {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal is the sum of price × quantity over all lines.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += float64(it.Price) * float64(it.Quantity)
	}
	return total
}

// Total equals Subtotal: tax and shipping are the server's concern, the
// storefront never adds its own lines.
func (c Cart) Total() float64 {
	return c.Subtotal()
}
