package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://es.openfoodfacts.org"
	DefaultCountry           = "españa"
	searchPath               = "/cgi/search.pl"
	defaultUserAgent         = "NutriTrack-FoodCatalog/1.0"
	responseBodyReadLimit    = 1024
	defaultHTTPClientTimeout = 60 * time.Second
)

// Product is one undecoded search result. Numbers are kept as json.Number.
type Product = map[string]any

// Client pages through the Open Food Facts product search.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string
	userAgent  string
	limiter    *rate.Limiter
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

// WithBaseURL overrides the search host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithCountry restricts results to products sold in the given country tag.
func WithCountry(country string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(country); trimmed != "" {
			c.country = trimmed
		}
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(userAgent); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithRequestInterval spaces consecutive requests at least interval apart.
// A non-positive interval disables pacing.
func WithRequestInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient builds a search client with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPClientTimeout},
		baseURL:    DefaultBaseURL,
		country:    DefaultCountry,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// FetchPage downloads one page of products ordered by scan popularity.
func (c *Client) FetchPage(ctx context.Context, page, size int) ([]Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "open food facts client not configured")
	}
	if page < 1 || size < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page and page size must be positive")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wait for request slot")
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(page, size), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build search request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "search request failed")
	}

	var apiResp struct {
		Products []Product `json:"products"`
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode search response")
	}
	if apiResp.Products == nil {
		return []Product{}, nil
	}
	return apiResp.Products, nil
}

func (c *Client) searchURL(page, size int) string {
	params := url.Values{}
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(size))
	params.Set("sort_by", "unique_scans_n")
	params.Set("tagtype_0", "countries")
	params.Set("tag_contains_0", "contains")
	params.Set("tag_0", c.country)
	return strings.TrimRight(c.baseURL, "/") + searchPath + "?" + params.Encode()
}
