package invoices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lamvungoc/jewelpos/pkg/config"
	pkgerrors "github.com/lamvungoc/jewelpos/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client consumes the remote invoice service. Every create call is made
// exactly once per invocation; retrying is the caller's decision.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewClient builds the invoice client from backend configuration.
func NewClient(cfg config.BackendConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backend base url is required")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		authToken:  strings.TrimSpace(cfg.AuthToken),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// CreateInvoice submits a forward-sale invoice.
func (c *Client) CreateInvoice(ctx context.Context, req SellInvoiceRequest) (*Invoice, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sell invoice payload")
	}
	var invoice Invoice
	if err := c.doJSON(ctx, http.MethodPost, "/OrderSells/create", req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateOrderBuyBackStore submits a repurchase of store-sold products.
func (c *Client) CreateOrderBuyBackStore(ctx context.Context, req BuyBackStoreRequest) (*Invoice, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "buy-back store payload")
	}
	var invoice Invoice
	if err := c.doJSON(ctx, http.MethodPost, "/OrderBuyBacks/createStore", req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateBuyBackInvoice submits an ad-hoc buy-back invoice.
func (c *Client) CreateBuyBackInvoice(ctx context.Context, req BuyBackInvoiceRequest) (*Invoice, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "buy-back invoice payload")
	}
	var invoice Invoice
	if err := c.doJSON(ctx, http.MethodPost, "/OrderBuyBacks/create", req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListOrders returns the sell-order history.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.doJSON(ctx, http.MethodGet, "/OrderSells", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListBuyBackOrders returns the buy-back order history.
func (c *Client) ListBuyBackOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.doJSON(ctx, http.MethodGet, "/OrderBuyBacks", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder cancels a pending sell order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return c.doJSON(ctx, http.MethodPost, "/OrderSells/"+url.PathEscape(id)+"/cancel", nil, nil)
}

// CancelBuyBackOrder cancels a pending buy-back order.
func (c *Client) CancelBuyBackOrder(ctx context.Context, orderID string) error {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return c.doJSON(ctx, http.MethodPost, "/OrderBuyBacks/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("backend returned %d", resp.StatusCode)).
			WithDetails(strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}
