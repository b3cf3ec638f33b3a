// Package httpapi exposes the storefront REST API consumed by the widget:
// the product catalog and order placement.
package httpapi

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler serves the storefront API, delegating business logic to the order
// service and product repository.
type Handler struct {
	products     product.Repository
	orderService *order.Service
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(cfg HandlerConfig, products product.Repository, orderService *order.Service) *Handler {
	return &Handler{
		products:     products,
		orderService: orderService,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes registers the API endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /product", h.ListProducts)
	mux.HandleFunc("GET /product/{id}", h.GetProduct)
	mux.HandleFunc("POST /order", h.PlaceOrder)
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if status >= 500 {
		zctx.From(r.Context()).Error("request failed",
			zap.Int("status", status),
			zap.String("message", message),
		)
		// Do not leak internals to the client.
		message = http.StatusText(status)
	}
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}
