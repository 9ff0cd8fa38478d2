package transport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"descartables/internal/domain"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin   = "login.html"
	pageIndex   = "index.html"
	pageAdd     = "add.html"
	pageEdit    = "edit.html"
	pageCarrito = "carrito.html"
)

// PageData is what every page template receives.
type PageData struct {
	Principal  *domain.Principal
	Flashes    []string
	TotalItems int
	Currency   string

	Products []*domain.Product
	Product  *domain.Product
	Cart     *domain.CartSummary
}

// Views holds one parsed template set per page, each combined with the
// shared layout.
type Views struct {
	pages map[string]*template.Template
}

var viewFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

func NewViews() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageLogin, pageIndex, pageAdd, pageEdit, pageCarrito} {
		t, err := template.New(page).Funcs(viewFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

// Render writes page with status. The page is rendered to a buffer first so a
// template failure never leaves a half-written response.
func (v *Views) Render(w http.ResponseWriter, status int, page string, data PageData) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
