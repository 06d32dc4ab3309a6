package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mdzubayertalukder/dropship-backend/pkg/config"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
)

const (
	apiBasePath      = "/wp-json/wc/v3"
	systemStatusPath = apiBasePath + "/system_status"
	productsPath     = apiBasePath + "/products"

	// ConnectionOKMessage is returned by TestConnection on success.
	ConnectionOKMessage = "Connection successful"
)

var (
	errBaseURLRequired = errors.New("store base url is required")
	errKeyRequired     = errors.New("consumer key is required")
	errSecretRequired  = errors.New("consumer secret is required")
)

// Credentials identify one WooCommerce store. Auth uses the REST API
// consumer key/secret pair passed as query parameters.
type Credentials struct {
	BaseURL string
	Key     string
	Secret  string
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errBaseURLRequired
	}
	if strings.TrimSpace(c.Key) == "" {
		return errKeyRequired
	}
	if strings.TrimSpace(c.Secret) == "" {
		return errSecretRequired
	}
	return nil
}

// Client talks to WooCommerce stores. One client serves all stores; the
// credentials travel with each call.
type Client struct {
	http       *http.Client
	maxRetries int
	retryPause time.Duration
	logger     *logger.Logger
}

// NewClient builds a store client from the catalog settings.
func NewClient(cfg config.CatalogConfig, logg *logger.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	pause := cfg.RetryPause
	if pause <= 0 {
		pause = time.Second
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: retries,
		retryPause: pause,
		logger:     logg,
	}
}

// TestConnection probes the store's system status endpoint and returns a
// human-readable confirmation on success.
func (c *Client) TestConnection(ctx context.Context, creds Credentials) (string, error) {
	if err := creds.validate(); err != nil {
		return "", err
	}
	resp, err := c.do(ctx, creds, systemStatusPath, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}
	return ConnectionOKMessage, nil
}

// FetchPage retrieves one page of published products.
func (c *Client) FetchPage(ctx context.Context, creds Credentials, page, perPage int) (*Page, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 100
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("status", "publish")

	resp, err := c.do(ctx, creds, productsPath, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decoding products page %d: %w", page, err)
	}

	total, _ := strconv.Atoi(resp.Header.Get("X-WP-Total"))
	totalPages, _ := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))

	return &Page{
		Products:   products,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    totalPages > page && len(products) > 0,
	}, nil
}

// FetchProduct retrieves a single product by its remote id.
func (c *Client) FetchProduct(ctx context.Context, creds Credentials, productID int64) (*Product, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/%d", productsPath, productID)
	resp, err := c.do(ctx, creds, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decoding product %d: %w", productID, err)
	}
	return &product, nil
}

// do issues an authenticated GET with bounded retries. Transport failures and
// 5xx responses are retried after a pause; 4xx responses fail immediately.
func (c *Client) do(ctx context.Context, creds Credentials, path string, params url.Values) (*http.Response, error) {
	endpoint, err := buildURL(creds, path, params)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryPause):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn(ctx, fmt.Sprintf("store request failed (attempt %d): %v", attempt+1, err))
			}
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = statusError(resp)
			resp.Body.Close()
			if c.logger != nil {
				c.logger.Warn(ctx, fmt.Sprintf("store returned %d (attempt %d)", resp.StatusCode, attempt+1))
			}
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("store unreachable after %d attempts: %w", c.maxRetries+1, lastErr)
}

func buildURL(creds Credentials, path string, params url.Values) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(creds.BaseURL), "/")
	parsed, err := url.Parse(base + path)
	if err != nil {
		return "", fmt.Errorf("invalid store url: %w", err)
	}
	query := parsed.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("consumer_key", creds.Key)
	query.Set("consumer_secret", creds.Secret)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("store responded with status %d", resp.StatusCode)
	}
	return fmt.Errorf("store responded with status %d: %s", resp.StatusCode, msg)
}
