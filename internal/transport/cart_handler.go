package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"descartables/internal/messaging"
	"descartables/internal/repository"
	"descartables/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	noticeQuantityBelowMinimum = "Error: La cantidad debe ser al menos 1."
	noticeQuantityNotInteger   = "Error: La cantidad debe ser un número entero."
	noticeQuantityAboveMaximum = "Error: La cantidad máxima por producto es 1000000 unidades."
	noticeEmptyCart            = "No hay items en el carrito."
	noticeOrderSent            = "¡Pedido enviado a WhatsApp! Revisa la app."
)

// CartHandler serves the user cart and the order hand-off.
type CartHandler struct {
	*Pages
	cartService service.CartService
	linker      messaging.Linker
	destination string
}

// NewCartHandler creates a new CartHandler. Orders are addressed to
// destination through linker.
func NewCartHandler(cartService service.CartService, linker messaging.Linker, destination string, pages *Pages) *CartHandler {
	return &CartHandler{
		Pages:       pages,
		cartService: cartService,
		linker:      linker,
		destination: destination,
	}
}

// RegisterRoutes registers the cart routes, all restricted to regular users.
func (h *CartHandler) RegisterRoutes(r chi.Router, userMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(userMiddleware)
		r.Post("/agregar_carrito/{producto_id}", h.AddItem)
		r.Get("/carrito", h.View)
		r.Get("/enviar_whatsapp", h.SendOrder)
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "producto_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Cart form decode failed", zap.Error(err))
		h.redirect(w, r, sess, noticeQuantityNotInteger, "/")
		return
	}

	result, err := h.cartService.AddItem(r.Context(), sess, productID, r.PostFormValue("cantidad"))
	if err != nil {
		var notice string
		switch {
		case errors.Is(err, service.ErrQuantityBelowMinimum):
			notice = noticeQuantityBelowMinimum
		case errors.Is(err, service.ErrQuantityNotInteger):
			notice = noticeQuantityNotInteger
		case errors.Is(err, service.ErrQuantityAboveMaximum):
			notice = noticeQuantityAboveMaximum
		case errors.Is(err, repository.ErrProductNotFound):
			notice = noticeProductNotFound
		default:
			h.logger.Error("Failed to add to cart", zap.Error(err), zap.Int64("product_id", productID))
			notice = noticeUnexpected
		}
		h.redirect(w, r, sess, notice, "/")
		return
	}

	notice := fmt.Sprintf("Producto agregado: %s (x%d)", result.Item.Description, result.Item.Quantity)
	if result.Merged {
		notice = fmt.Sprintf("Cantidad actualizada para %s: %d unidades.", result.Item.Description, result.Item.Quantity)
	}
	h.redirect(w, r, sess, notice, "/")
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	summary := h.cartService.ViewCart(sess)
	h.render(w, r, sess, pageCarrito, PageData{Cart: &summary})
}

// SendOrder sends the browser to the messaging app with the order text. The
// cart is kept.
func (h *CartHandler) SendOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	msg, err := h.cartService.ComposeOrderMessage(sess)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			h.redirect(w, r, sess, noticeEmptyCart, "/carrito")
			return
		}
		h.logger.Error("Failed to compose order", zap.Error(err))
		h.redirect(w, r, sess, noticeUnexpected, "/carrito")
		return
	}

	sess.AddFlash(noticeOrderSent)
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
	}

	h.logger.Info("Order handed off",
		zap.Int64("account_id", sess.Principal.AccountID),
		zap.Int("lines", len(sess.Cart.Items)),
	)
	http.Redirect(w, r, h.linker.Link(h.destination, msg), http.StatusSeeOther)
}
