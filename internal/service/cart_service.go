package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"descartables/internal/config"
	"descartables/internal/domain"
	"descartables/internal/repository"
	"descartables/internal/session"
)

const orderTimeLayout = "02/01/2006 15:04"

// CartService defines the interface for the per-session cart
type CartService interface {
	EnsureCart(sess *session.Session) domain.Cart
	AddItem(ctx context.Context, sess *session.Session, productID int64, quantity string) (domain.AddResult, error)
	ViewCart(sess *session.Session) domain.CartSummary
	ComposeOrderMessage(sess *session.Session) (string, error)
}

type cartService struct {
	productRepo repository.ProductRepository
	order       config.OrderConfig
	now         func() time.Time
}

// NewCartService creates a new instance of CartService. now stamps order
// messages; nil means time.Now.
func NewCartService(productRepo repository.ProductRepository, order config.OrderConfig, now func() time.Time) CartService {
	if now == nil {
		now = time.Now
	}
	return &cartService{
		productRepo: productRepo,
		order:       order,
		now:         now,
	}
}

// EnsureCart gives sess an empty cart if it has none and returns the cart.
func (s *cartService) EnsureCart(sess *session.Session) domain.Cart {
	cart := domain.EnsureCart(sess.Cart)
	sess.Cart = &cart
	return cart
}

// ParseQuantity accepts a decimal integer between 1 and
// domain.MaxLineQuantity.
func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrQuantityAboveMaximum
		}
		return 0, ErrQuantityNotInteger
	}
	if qty < 1 {
		return 0, ErrQuantityBelowMinimum
	}
	if qty > domain.MaxLineQuantity {
		return 0, ErrQuantityAboveMaximum
	}
	return qty, nil
}

// AddItem adds quantity units of the product with productID to the cart of
// sess. The session is updated in place; persisting it is up to the caller.
func (s *cartService) AddItem(ctx context.Context, sess *session.Session, productID int64, quantity string) (domain.AddResult, error) {
	cart := s.EnsureCart(sess)

	qty, err := ParseQuantity(quantity)
	if err != nil {
		return domain.AddResult{}, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.AddResult{}, err
	}

	next, result, err := cart.Add(*product, qty)
	if err != nil {
		if errors.Is(err, domain.ErrLineQuantityLimit) {
			return domain.AddResult{}, ErrQuantityAboveMaximum
		}
		return domain.AddResult{}, err
	}
	sess.Cart = &next
	return result, nil
}

func (s *cartService) ViewCart(sess *session.Session) domain.CartSummary {
	return s.EnsureCart(sess).Summary()
}

// ComposeOrderMessage renders the cart of sess as the order text sent to the
// shop. The cart is left as is.
func (s *cartService) ComposeOrderMessage(sess *session.Session) (string, error) {
	cart := s.EnsureCart(sess)
	if cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	summary := cart.Summary()

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n\n", s.order.Title, s.now().Format(orderTimeLayout))
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "- %d x %s: %s %s\n",
			line.Quantity, line.Description, s.order.Currency, line.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n%s: %s %s\n\n%s",
		s.order.TotalLabel, s.order.Currency, summary.Total.StringFixed(2), s.order.Closing)

	return b.String(), nil
}
