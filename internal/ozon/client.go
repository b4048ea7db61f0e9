// Package ozon talks to the Ozon seller API and reconciles the supplier
// feed against the seller catalog.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"watchsync/internal/app_errors"
)

const (
	defaultBaseURL = "https://api-seller.ozon.ru"

	// Catalog page size for /v2/product/list.
	pageLimit = 1000

	// Request caps for the import endpoints.
	MaxStocksPerRequest = 100
	MaxPricesPerRequest = 900
)

// Client is an authenticated Ozon seller API client.
type Client struct {
	baseURL    string
	clientID   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a seller API client authenticated with the
// Client-Id / Api-Key header pair.
func NewClient(clientID, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		clientID: clientID,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 100 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLimiter sets the outgoing request limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// ProductList fetches one catalog page starting after lastID.
func (c *Client) ProductList(ctx context.Context, lastID string) (*ProductPage, error) {
	payload := productListRequest{
		Filter: productFilter{Visibility: "ALL"},
		LastID: lastID,
		Limit:  pageLimit,
	}

	var response productListResponse
	if err := c.post(ctx, "/v2/product/list", payload, &response); err != nil {
		return nil, err
	}
	return &response.Result, nil
}

// OfferIDs pages through the seller catalog and returns every listed
// offer id. Paging stops once the server-reported total is accumulated;
// an empty page before that point is a malformed catalog.
func (c *Client) OfferIDs(ctx context.Context) ([]string, error) {
	var offerIDs []string
	lastID := ""

	for {
		page, err := c.ProductList(ctx, lastID)
		if err != nil {
			return nil, err
		}
		for _, product := range page.Items {
			offerIDs = append(offerIDs, product.OfferID)
		}

		if len(offerIDs) >= page.Total {
			break
		}
		if len(page.Items) == 0 {
			return nil, fmt.Errorf("%w: empty catalog page after %d of %d offers",
				app_errors.ErrBadData, len(offerIDs), page.Total)
		}
		lastID = page.LastID
	}

	c.logger.Debug().Int("offers", len(offerIDs)).Msg("fetched ozon catalog")
	return offerIDs, nil
}

// UpdateStocks sends one batch of stock updates. The batch must already
// respect MaxStocksPerRequest.
func (c *Client) UpdateStocks(ctx context.Context, stocks []StockUpdate) error {
	return c.post(ctx, "/v1/product/import/stocks", stocksRequest{Stocks: stocks}, nil)
}

// UpdatePrices sends one batch of price updates. The batch must already
// respect MaxPricesPerRequest.
func (c *Client) UpdatePrices(ctx context.Context, prices []PriceUpdate) error {
	return c.post(ctx, "/v1/product/import/prices", pricesRequest{Prices: prices}, nil)
}

func (c *Client) post(ctx context.Context, path string, payload, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrRateLimiter, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &app_errors.StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: respBody}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decoding response: %v", app_errors.ErrBadData, err)
	}
	return nil
}
