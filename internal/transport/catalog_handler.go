package transport

import (
	"errors"
	"net/http"
	"net/url"

	"descartables/internal/repository"
	"descartables/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	noticeProductCreated  = "Producto agregado exitosamente."
	noticeProductUpdated  = "Producto actualizado exitosamente."
	noticeProductDeleted  = "Producto eliminado exitosamente."
	noticeProductNotFound = "Producto no encontrado."
	noticeDuplicateCode   = "Error: El código ya existe. Debe ser único."
	noticeInvalidPrice    = "Error: El precio debe ser un número válido."
)

// CatalogHandler serves the catalog page and the admin product forms.
type CatalogHandler struct {
	*Pages
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, pages *Pages) *CatalogHandler {
	return &CatalogHandler{
		Pages:          pages,
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the catalog routes. The index needs any logged in
// principal; the rest is admin only.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Index)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/add", h.AddForm)
		r.Post("/insert", h.Insert)
		r.Get("/edit/{codigo}", h.EditForm)
		r.Post("/update/{codigo}", h.Update)
		r.Get("/delete/{codigo}", h.Delete)
	})
}

// Index lists the whole catalog.
func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list catalog", zap.Error(err))
		h.render(w, r, sess, pageIndex, PageData{Flashes: []string{noticeUnexpected}})
		return
	}

	h.render(w, r, sess, pageIndex, PageData{Products: products})
}

func (h *CatalogHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	h.render(w, r, sess, pageAdd, PageData{})
}

func (h *CatalogHandler) Insert(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Product form decode failed", zap.Error(err))
		h.redirect(w, r, sess, noticeUnexpected, "/add")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), productForm(r))
	if err != nil {
		notice, target := h.productFailure(err, "/add")
		h.redirect(w, r, sess, notice, target)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("code", product.Code))
	h.redirect(w, r, sess, noticeProductCreated, "/")
}

// EditForm shows the product pre-filled, or sends the admin back when the
// code is unknown.
func (h *CatalogHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProductByCode(r.Context(), chi.URLParam(r, "codigo"))
	if err != nil {
		notice, target := h.productFailure(err, "/")
		h.redirect(w, r, sess, notice, target)
		return
	}

	h.render(w, r, sess, pageEdit, PageData{Product: product})
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	code := chi.URLParam(r, "codigo")
	editPath := "/edit/" + url.PathEscape(code)

	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Product form decode failed", zap.Error(err))
		h.redirect(w, r, sess, noticeUnexpected, editPath)
		return
	}

	if _, err := h.catalogService.UpdateProduct(r.Context(), code, productForm(r)); err != nil {
		notice, target := h.productFailure(err, editPath)
		h.redirect(w, r, sess, notice, target)
		return
	}

	h.logger.Info("Product updated", zap.String("code", code))
	h.redirect(w, r, sess, noticeProductUpdated, "/")
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	code := chi.URLParam(r, "codigo")
	if err := h.catalogService.DeleteProduct(r.Context(), code); err != nil {
		notice, target := h.productFailure(err, "/")
		h.redirect(w, r, sess, notice, target)
		return
	}

	h.logger.Info("Product deleted", zap.String("code", code))
	h.redirect(w, r, sess, noticeProductDeleted, "/")
}

func productForm(r *http.Request) service.ProductInput {
	return service.ProductInput{
		Code:        r.PostFormValue("codigo"),
		Description: r.PostFormValue("descripcion"),
		ImageRef:    r.PostFormValue("foto"),
		Price:       r.PostFormValue("precio"),
	}
}

// productFailure maps a catalog error to the notice shown to the admin and
// the page to return to. formPath is the form that produced the input.
func (h *CatalogHandler) productFailure(err error, formPath string) (notice, target string) {
	var inputErr *service.InputError
	switch {
	case errors.Is(err, service.ErrInvalidPrice):
		return noticeInvalidPrice, formPath
	case errors.As(err, &inputErr):
		return "Error: " + inputErr.Error(), formPath
	case errors.Is(err, repository.ErrDuplicateCode):
		return noticeDuplicateCode, "/"
	case errors.Is(err, repository.ErrProductNotFound):
		return noticeProductNotFound, "/"
	default:
		h.logger.Error("Catalog operation failed", zap.Error(err))
		return noticeUnexpected, "/"
	}
}
