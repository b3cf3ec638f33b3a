package httpapi

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/product"
)

// ListProducts returns every product in the catalog wrapped in the
// {"items": [...]} envelope.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "list products: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, p := range products {
						h.encodeProduct(e, p)
					}
				})
			})
		})
	})
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "get product: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, *p)
	})
}

// encodeProduct writes a product object. Image paths are prefixed with the
// configured imageBaseURL; a missing price encodes as JSON null.
func (h *Handler) encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("image", func(e *jx.Encoder) { e.Str(h.imageBaseURL + p.Image) })
		e.Field("price", func(e *jx.Encoder) {
			if p.Priceless() {
				e.Null()
				return
			}
			e.Num(jx.Num(p.Price.Decimal.String()))
		})
	})
}
