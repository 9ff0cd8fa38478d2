package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one product in a cart.
const MaxLineQuantity = 1_000_000

var ErrLineQuantityLimit = errors.New("line quantity limit exceeded")

// LineItem is one product in a cart. Code, Description, ImageRef and Price
// are copied from the catalog when the product is first added and are not
// refreshed afterwards.
type LineItem struct {
	ProductID   int64           `json:"product_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	ImageRef    string          `json:"image_ref"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart holds at most one LineItem per ProductID, in insertion order.
//
// Cart is a value: every operation returns a new Cart and never mutates the
// receiver's backing array, so a Cart read from a session can be handed to
// several callers safely.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddResult tells the caller which line changed and its resulting quantity.
type AddResult struct {
	Item   LineItem
	Merged bool
}

// CartLine is a LineItem with its computed subtotal.
type CartLine struct {
	LineItem
	Subtotal decimal.Decimal
}

// CartSummary is the read model of a cart. Totals are always computed from
// the lines, never cached.
type CartSummary struct {
	Lines      []CartLine
	TotalItems int
	Total      decimal.Decimal
}

// EnsureCart returns the cart behind c, or an empty one when c is nil.
func EnsureCart(c *Cart) Cart {
	if c == nil {
		return Cart{Items: []LineItem{}}
	}
	return c.clone()
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add puts qty units of p into the cart. An existing line for p.ID has its
// quantity increased and keeps its original snapshot; otherwise a new line
// snapshots p as it is now. qty must be at least 1. A line may not exceed
// MaxLineQuantity; on ErrLineQuantityLimit the receiver is returned as is.
func (c Cart) Add(p Product, qty int) (Cart, AddResult, error) {
	if qty > MaxLineQuantity {
		return c, AddResult{}, ErrLineQuantityLimit
	}

	for i := range c.Items {
		if c.Items[i].ProductID != p.ID {
			continue
		}
		if c.Items[i].Quantity > MaxLineQuantity-qty {
			return c, AddResult{}, ErrLineQuantityLimit
		}
		next := c.clone()
		next.Items[i].Quantity += qty
		return next, AddResult{Item: next.Items[i], Merged: true}, nil
	}

	item := LineItem{
		ProductID:   p.ID,
		Code:        p.Code,
		Description: p.Description,
		ImageRef:    p.ImageRef,
		Price:       p.Price,
		Quantity:    qty,
	}
	next := c.clone()
	next.Items = append(next.Items, item)
	return next, AddResult{Item: item}, nil
}

func (c Cart) Summary() CartSummary {
	summary := CartSummary{
		Lines: make([]CartLine, 0, len(c.Items)),
		Total: decimal.Zero,
	}
	for _, item := range c.Items {
		sub := item.Subtotal()
		summary.Lines = append(summary.Lines, CartLine{LineItem: item, Subtotal: sub})
		summary.TotalItems += item.Quantity
		summary.Total = summary.Total.Add(sub)
	}
	return summary
}

func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	return Cart{Items: items}
}
