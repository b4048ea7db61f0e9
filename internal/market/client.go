// Package market talks to the Yandex Market partner API and reconciles
// the supplier feed against campaign catalogs.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"watchsync/internal/app_errors"
)

const (
	defaultBaseURL = "https://api.partner.market.yandex.ru"

	// Catalog page size for offer-mapping-entries.
	pageLimit = 200

	// Request caps for the campaign update endpoints.
	MaxStocksPerRequest = 2000
	MaxPricesPerRequest = 500
)

// Client is a partner API client authenticated with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a partner API client.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 100 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		logger:  zerolog.Nop(),
		now:     time.Now,
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

// WithClock overrides the stock timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// OfferMappings fetches one catalog page of a campaign, starting at
// pageToken ("" for the first page).
func (c *Client) OfferMappings(ctx context.Context, campaignID, pageToken string) (*MappingPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(pageLimit))
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}

	var response mappingResponse
	path := fmt.Sprintf("/campaigns/%s/offer-mapping-entries", campaignID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &response); err != nil {
		return nil, err
	}
	return &response.Result, nil
}

// OfferIDs pages through a campaign catalog and returns every shop sku.
// Paging follows nextPageToken until the server stops returning one.
func (c *Client) OfferIDs(ctx context.Context, campaignID string) ([]string, error) {
	var offerIDs []string
	pageToken := ""

	for {
		page, err := c.OfferMappings(ctx, campaignID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, entry := range page.Entries {
			offerIDs = append(offerIDs, entry.Offer.ShopSKU)
		}

		pageToken = page.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Debug().Str("campaign", campaignID).Int("offers", len(offerIDs)).Msg("fetched campaign catalog")
	return offerIDs, nil
}

// UpdateStocks sends one batch of stock updates for a campaign. The
// batch must already respect MaxStocksPerRequest.
func (c *Client) UpdateStocks(ctx context.Context, campaignID string, stocks []StockUpdate) error {
	path := fmt.Sprintf("/campaigns/%s/offers/stocks", campaignID)
	return c.do(ctx, http.MethodPut, path, nil, stocksRequest{SKUs: stocks}, nil)
}

// UpdatePrices sends one batch of price updates for a campaign. The
// batch must already respect MaxPricesPerRequest.
func (c *Client) UpdatePrices(ctx context.Context, campaignID string, prices []PriceUpdate) error {
	path := fmt.Sprintf("/campaigns/%s/offer-prices/updates", campaignID)
	return c.do(ctx, http.MethodPost, path, nil, pricesRequest{Offers: prices}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrRateLimiter, err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
