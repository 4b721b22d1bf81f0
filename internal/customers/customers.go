package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lamvungoc/jewelpos/pkg/config"
	pkgerrors "github.com/lamvungoc/jewelpos/pkg/errors"
	"github.com/shopspring/decimal"
)

const errorBodyReadLimit int64 = 1024

var validate = validator.New(validator.WithRequiredStructEnabled())

// Customer is a registered store customer. TierName and DiscountPercent
// come from the loyalty program and drive the sell-invoice discount.
type Customer struct {
	CustomerID      string          `json:"customerId"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	TierName        string          `json:"tierName,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// NewCustomer is the registration form payload. All three fields must be
// filled in before any network call happens.
type NewCustomer struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// Client consumes the remote customer registry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewClient builds the customer client from backend configuration.
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

// List returns all registered customers.
func (c *Client) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := c.doJSON(ctx, http.MethodGet, "/Customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Create registers a new customer. Validation failures surface before any
// request is sent, with per-field details for the form alert.
func (c *Client) Create(ctx context.Context, form NewCustomer) (*Customer, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Address = strings.TrimSpace(form.Address)

	if err := validate.Struct(form); err != nil {
		missing := []string{}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "customer form incomplete").
			WithDetails(missing)
	}

	var created Customer
	if err := c.doJSON(ctx, http.MethodPost, "/Customers", form, &created); err != nil {
		return nil, err
	}
	return &created, nil
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
