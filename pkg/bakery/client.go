package bakery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/config"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("backend base url is required")
	errLoggerRequired  = errors.New("backend logger is required")
)

// Client talks to the back-office API that owns catalog data, receipt media,
// and sale records. The terminal never persists any of this locally.
type Client struct {
	baseURL      string
	serviceToken string
	http         *http.Client
	logger       *logger.Logger
}

// NewClient initializes the back-office client and validates its config.
func NewClient(cfg config.BackendConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	return &Client{
		baseURL:      baseURL,
		serviceToken: strings.TrimSpace(cfg.ServiceToken),
		http:         &http.Client{Timeout: cfg.Timeout},
		logger:       logg,
	}, nil
}

// ListProducts returns the full product list, active and inactive.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.getJSON(ctx, "list_products", "/api/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInventory returns current stock levels per product.
func (c *Client) ListInventory(ctx context.Context) ([]StockLevel, error) {
	var out []StockLevel
	if err := c.getJSON(ctx, "list_inventory", "/api/inventory", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCustomers returns the customer book with credit limits and balances.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.getJSON(ctx, "list_customers", "/api/customers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPricingServices returns discount and tax rate definitions.
func (c *Client) ListPricingServices(ctx context.Context) ([]PricingService, error) {
	var out []PricingService
	if err := c.getJSON(ctx, "list_pricing_services", "/api/pricing-services", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadReceipt pushes a payment receipt image to the media endpoint and
// returns the stored URL.
func (c *Client) UploadReceipt(ctx context.Context, filename string, data []byte) (string, error) {
	const op = "upload_receipt"

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build receipt form")
	}
	if _, err := part.Write(data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write receipt form")
	}
	if err := writer.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close receipt form")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/media/receipts", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log(ctx, "request", op, map[string]any{"filename": filename, "bytes": len(data)})

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(req, op, &out); err != nil {
		return "", err
	}
	c.log(ctx, "response", op, map[string]any{"url": out.URL})
	return out.URL, nil
}

// SubmitSale posts a completed checkout to the sales endpoint. The echoed
// record is returned for logging only; callers do not consume its contents.
func (c *Client) SubmitSale(ctx context.Context, payload SaleSubmission) (*SaleRecord, error) {
	const op = "submit_sale"

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode sale payload")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/sales", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.log(ctx, "request", op, map[string]any{
		"cashier_id":     payload.CashierID,
		"payment_method": payload.PaymentMethod,
		"total":          payload.Total,
		"items":          len(payload.Items),
	})

	record := &SaleRecord{}
	if err := c.do(req, op, record); err != nil {
		return nil, err
	}
	c.log(ctx, "response", op, map[string]any{"sale_id": record.ID})
	return record, nil
}

// Ping verifies connectivity by fetching the cheapest catalog collection.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListPricingServices(ctx)
	return err
}

func (c *Client) getJSON(ctx context.Context, op, path string, dest any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.log(ctx, "request", op, nil)
	if err := c.do(req, op, dest); err != nil {
		return err
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log(req.Context(), "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("backend %s failed", op))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := readErrorReason(resp.Body)
		c.log(req.Context(), "error", op, map[string]any{"status": resp.StatusCode, "reason": reason})
		err := pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("backend %s failed", op))
		if reason != "" {
			err = err.WithDetails(map[string]any{"reason": reason})
		}
		return err
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode backend %s response", op))
	}
	return nil
}

func readErrorReason(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		var cause error
		if v, ok := fields["error"]; ok {
			cause = errors.New(fmt.Sprint(v))
		}
		c.logger.Error(ctx, fmt.Sprintf("backend %s", op), cause)
	default:
		c.logger.Info(ctx, fmt.Sprintf("backend %s", phase))
	}
}
