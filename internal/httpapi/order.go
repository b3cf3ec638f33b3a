package httpapi

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/order"
)

// PlaceOrder decodes the submitted draft, delegates to the order service,
// and maps domain errors to API responses.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read body")
		return
	}

	draft, err := decodeDraft(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed order: "+err.Error())
		return
	}

	o, err := h.orderService.PlaceOrder(r.Context(), draft)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("orderId", func(e *jx.Encoder) { e.Str(o.ID) })
			e.Field("total", func(e *jx.Encoder) { e.Num(jx.Num(o.Total.String())) })
		})
	})
}

// writeOrderError converts domain errors to API error responses.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, order.ErrEmptyItems) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var missing *order.MissingFieldError
	if errors.As(err, &missing) {
		writeError(w, r, http.StatusBadRequest, missing.Error())
		return
	}

	var unknown *order.UnknownProductError
	if errors.As(err, &unknown) {
		writeError(w, r, http.StatusUnprocessableEntity, unknown.Error())
		return
	}

	var priceless *order.PricelessProductError
	if errors.As(err, &priceless) {
		writeError(w, r, http.StatusUnprocessableEntity, priceless.Error())
		return
	}

	writeError(w, r, http.StatusInternalServerError, "place order: "+err.Error())
}

func decodeDraft(raw []byte) (order.Draft, error) {
	draft := order.NewDraft()
	d := jx.DecodeBytes(raw)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "address":
			v, err := d.Str()
			draft.Address = v
			return err
		case "payment":
			v, err := d.Str()
			draft.Payment = v
			return err
		case "email":
			v, err := d.Str()
			draft.Email = v
			return err
		case "phone":
			v, err := d.Str()
			draft.Phone = v
			return err
		case "total":
			// Advisory only; the service recomputes from the catalog.
			return d.Skip()
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				id, err := d.Str()
				if err != nil {
					return err
				}
				draft.Items = append(draft.Items, id)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return draft, err
}
