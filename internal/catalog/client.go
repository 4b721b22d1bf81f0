package catalog

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
	"github.com/shopspring/decimal"
)

const (
	errorBodyReadLimit int64 = 1024

	defaultTimeout = 10 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client consumes the remote catalog and pricing service. It owns no
// pricing logic; every figure it returns is the backend's.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the catalog client from backend configuration.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backend base url is required")
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL:    baseURL,
		authToken:  strings.TrimSpace(cfg.AuthToken),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// ProductDetails is the per-product pricing snapshot returned by the
// backend. DiscountRate is a percentage applied to the gap between the
// current sale price and the base repurchase price.
type ProductDetails struct {
	ProductID    string          `json:"productId"`
	ProductCode  string          `json:"productCode"`
	ProductName  string          `json:"productName"`
	Description  string          `json:"description"`
	Material     string          `json:"material"`
	ProductImage string          `json:"productImage"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	BuyBackPrice decimal.Decimal `json:"buyBackPrice"`
	DiscountRate decimal.Decimal `json:"discountRate"`
}

// Product is a catalog listing row.
type Product struct {
	ProductID    string          `json:"productId"`
	ProductCode  string          `json:"productCode"`
	ProductName  string          `json:"productName"`
	Description  string          `json:"description"`
	Material     string          `json:"material"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
}

// Material is one purchasable material with its current buy price.
type Material struct {
	MaterialID      string          `json:"materialId"`
	Name            string          `json:"materialName"`
	BuyPricePerGram decimal.Decimal `json:"buyPricePerGram"`
}

// MaterialGroup is a named group of materials (gold types, silver types).
type MaterialGroup struct {
	GroupName string     `json:"groupName"`
	Materials []Material `json:"materials"`
}

// ReviewResult carries the backend's priced answer to a review request.
type ReviewResult struct {
	Success bool            `json:"success"`
	Price   decimal.Decimal `json:"price"`
}

// DiamondGrade describes a loose diamond for pricing review.
type DiamondGrade struct {
	Origin      string          `json:"origin" validate:"required"`
	CaratWeight decimal.Decimal `json:"caratWeight" validate:"required"`
	Color       string          `json:"color" validate:"required"`
	Clarity     string          `json:"clarity" validate:"required"`
	Cut         string          `json:"cut" validate:"required"`
}

// FetchProductByID loads current pricing details for one catalog product.
func (c *Client) FetchProductByID(ctx context.Context, productID string) (*ProductDetails, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var details ProductDetails
	if err := c.doJSON(ctx, http.MethodGet, "/Products/"+url.PathEscape(id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// ListAvailableProducts returns every product currently sellable. The
// endpoint path spelling is the backend's.
func (c *Client) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.doJSON(ctx, http.MethodGet, "/Products/allProductsAvaiable", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetMaterials returns the material groups used by the ad-hoc buy-back
// form.
func (c *Client) GetMaterials(ctx context.Context) ([]MaterialGroup, error) {
	var groups []MaterialGroup
	if err := c.doJSON(ctx, http.MethodGet, "/Materials", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

type materialReviewRequest struct {
	MaterialID  string          `json:"materialId" validate:"required"`
	WeightGrams decimal.Decimal `json:"weight" validate:"required"`
}

// ReviewMaterialPrice asks the backend to price a weighed material.
func (c *Client) ReviewMaterialPrice(ctx context.Context, materialID string, weightGrams decimal.Decimal) (ReviewResult, error) {
	req := materialReviewRequest{MaterialID: strings.TrimSpace(materialID), WeightGrams: weightGrams}
	if err := validate.Struct(req); err != nil {
		return ReviewResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "material review input")
	}
	if weightGrams.Sign() <= 0 {
		return ReviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}

	var result ReviewResult
	if err := c.doJSON(ctx, http.MethodPost, "/BuyBacks/reviewMaterialPrice", req, &result); err != nil {
		return ReviewResult{}, err
	}
	return result, nil
}

// ReviewDiamondPrice asks the backend to price a graded diamond.
func (c *Client) ReviewDiamondPrice(ctx context.Context, grade DiamondGrade) (ReviewResult, error) {
	if err := validate.Struct(grade); err != nil {
		return ReviewResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "diamond review input")
	}
	if grade.CaratWeight.Sign() <= 0 {
		return ReviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "carat weight must be positive")
	}

	var result ReviewResult
	if err := c.doJSON(ctx, http.MethodPost, "/BuyBacks/reviewDiamondPrice", grade, &result); err != nil {
		return ReviewResult{}, err
	}
	return result, nil
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
