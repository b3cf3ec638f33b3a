// Package apiclient is the storefront's remote client: one call to fetch the
// product catalog and one call to submit an order. Each operation resolves
// or fails exactly once; catalog fetches retry a bounded number of times
// with backoff, order submission is a single attempt because it is not
// idempotent.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// APIError is a structured error response from the storefront API.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080.
	BaseURL string
	// CDNURL is prepended to relative product image paths. Optional.
	CDNURL string
	// Retries is the number of FetchCatalog attempts. Defaults to 3.
	Retries int
	// Backoff is the base delay between attempts, growing linearly.
	// Defaults to 500ms.
	Backoff time.Duration
	// HTTPClient overrides the transport. Defaults to a client with a 10s
	// timeout.
	HTTPClient *http.Client
}

// Client talks to the storefront REST API.
type Client struct {
	base    string
	cdn     string
	retries int
	backoff time.Duration
	http    *http.Client
	lg      *zap.Logger
}

// New creates a Client from cfg, applying defaults for unset fields.
func New(cfg Config, lg *zap.Logger) *Client {
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		base:    cfg.BaseURL,
		cdn:     cfg.CDNURL,
		retries: cfg.Retries,
		backoff: cfg.Backoff,
		http:    cfg.HTTPClient,
		lg:      lg,
	}
}

// FetchCatalog returns the full product list. Transport failures and 5xx
// responses are retried up to the configured attempt count; 4xx responses
// fail immediately.
func (c *Client) FetchCatalog(ctx context.Context) ([]product.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * c.backoff
			c.lg.Warn("catalog fetch failed, retrying",
				zap.Int("attempt", attempt-1),
				zap.Duration("backoff", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		products, retryable, err := c.fetchCatalogOnce(ctx)
		if err == nil {
			return products, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "fetch catalog after %d attempts", c.retries)
}

func (c *Client) fetchCatalogOnce(ctx context.Context) (products []product.Product, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/product", nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, errors.Wrap(err, "get /product")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, c.readError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errors.Wrap(err, "read body")
	}
	products, err = c.decodeCatalog(body)
	if err != nil {
		return nil, false, errors.Wrap(err, "decode catalog")
	}
	return products, false, nil
}

// SubmitOrder sends the finalized draft and returns the created order id.
// Exactly one attempt: placing an order is not idempotent.
func (c *Client) SubmitOrder(ctx context.Context, draft order.Draft) (string, error) {
	body := encodeDraft(draft)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/order", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "post /order")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.readError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}

	var orderID string
	d := jx.DecodeBytes(raw)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "orderId" {
			id, err := d.Str()
			orderID = id
			return err
		}
		return d.Skip()
	}); err != nil {
		return "", errors.Wrap(err, "decode order response")
	}
	if orderID == "" {
		return "", errors.New("order response missing orderId")
	}
	return orderID, nil
}

// readError parses an {"code": n, "message": "..."} body, falling back to
// the HTTP status when the body is not parseable.
func (c *Client) readError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		apiErr := &APIError{Code: resp.StatusCode}
		d := jx.DecodeBytes(raw)
		decodeErr := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			switch string(key) {
			case "code":
				code, err := d.Int()
				apiErr.Code = code
				return err
			case "message":
				msg, err := d.Str()
				apiErr.Message = msg
				return err
			default:
				return d.Skip()
			}
		})
		if decodeErr == nil && apiErr.Message != "" {
			return apiErr
		}
	}
	return &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
