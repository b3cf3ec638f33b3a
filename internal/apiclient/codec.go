package apiclient

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// decodeCatalog parses the {"items": [...]} list envelope. Relative image
// paths get the CDN base prepended.
func (c *Client) decodeCatalog(raw []byte) ([]product.Product, error) {
	var products []product.Product

	d := jx.DecodeBytes(raw)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			if c.cdn != "" {
				p.Image = c.cdn + p.Image
			}
			products = append(products, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "title":
			v, err := d.Str()
			p.Title = v
			return err
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "category":
			v, err := d.Str()
			p.Category = v
			return err
		case "image":
			v, err := d.Str()
			p.Image = v
			return err
		case "price":
			if d.Next() == jx.Null {
				return d.Null()
			}
			num, err := d.Num()
			if err != nil {
				return err
			}
			dec, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			p.Price = decimal.NewNullDecimal(dec)
			return nil
		default:
			return d.Skip()
		}
	})
	return p, err
}

// encodeDraft serializes the order draft for POST /order.
func encodeDraft(draft order.Draft) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("address", func(e *jx.Encoder) { e.Str(draft.Address) })
		e.Field("payment", func(e *jx.Encoder) { e.Str(draft.Payment) })
		e.Field("email", func(e *jx.Encoder) { e.Str(draft.Email) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(draft.Phone) })
		e.Field("total", func(e *jx.Encoder) { e.Num(jx.Num(draft.Total.String())) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, id := range draft.Items {
					e.Str(id)
				}
			})
		})
	})
	return e.Bytes()
}
