// Package alphavantage is a client for the Alpha Vantage GLOBAL_QUOTE and SYMBOL_SEARCH endpoints.
package alphavantage

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

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// DefaultBaseURL is the public Alpha Vantage query endpoint
const DefaultBaseURL = "https://www.alphavantage.co/query"

// ErrRateLimited is returned when the upstream answers with a throttling note instead of data
var ErrRateLimited = fmt.Errorf("alpha vantage rate limit: %w", domain.ErrTransportFailure)

// APIError represents a non-2xx answer from Alpha Vantage
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpha vantage api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies every HTTP failure as a transport failure
func (e *APIError) Unwrap() error {
	return domain.ErrTransportFailure
}

// IsRetryable returns true if the error should trigger a retry
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client talks to Alpha Vantage
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	maxTries     uint
	retryBackoff time.Duration
	log          zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the query endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetries sets the number of attempts and the initial backoff between them
func WithRetries(maxTries uint, initial time.Duration) Option {
	return func(c *Client) {
		c.maxTries = maxTries
		c.retryBackoff = initial
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "alphavantage").Logger() }
}

// NewClient creates a client for the given API key
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		maxTries:     3,
		retryBackoff: 500 * time.Millisecond,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
	Information string            `json:"Information"`
	ErrorMsg    string            `json:"Error Message"`
}

type symbolSearchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
	Note        string              `json:"Note"`
	Information string              `json:"Information"`
	ErrorMsg    string              `json:"Error Message"`
}

// GlobalQuote fetches the latest quote of a symbol.
// Alpha Vantage does not return company names here, so Name is the symbol.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)

	var resp globalQuoteResponse
	if err := c.get(ctx, query, &resp); err != nil {
		return nil, err
	}

	if resp.Note != "" || resp.Information != "" {
		return nil, ErrRateLimited
	}
	if resp.ErrorMsg != "" {
		// Sent for invalid calls and bad keys. Unknown symbols come back as an empty quote.
		return nil, fmt.Errorf("symbol %s: %s: %w", symbol, resp.ErrorMsg, domain.ErrMalformedPayload)
	}
	if len(resp.GlobalQuote) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNotFound)
	}

	return parseGlobalQuote(resp.GlobalQuote)
}

// SymbolSearch returns the best matches for keywords
func (c *Client) SymbolSearch(ctx context.Context, keywords string) ([]domain.SearchResult, error) {
	query := url.Values{}
	query.Set("function", "SYMBOL_SEARCH")
	query.Set("keywords", keywords)

	var resp symbolSearchResponse
	if err := c.get(ctx, query, &resp); err != nil {
		return nil, err
	}

	if resp.Note != "" || resp.Information != "" {
		return nil, ErrRateLimited
	}
	if resp.ErrorMsg != "" {
		return nil, fmt.Errorf("search %q: %s: %w", keywords, resp.ErrorMsg, domain.ErrMalformedPayload)
	}

	results := make([]domain.SearchResult, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		results = append(results, domain.SearchResult{
			Symbol:      m["1. symbol"],
			Name:        m["2. name"],
			Type:        m["3. type"],
			Region:      m["4. region"],
			MarketOpen:  m["5. marketOpen"],
			MarketClose: m["6. marketClose"],
			Timezone:    m["7. timezone"],
			Currency:    m["8. currency"],
			MatchScore:  m["9. matchScore"],
		})
	}
	return results, nil
}

func parseGlobalQuote(fields map[string]string) (*domain.Quote, error) {
	symbol := fields["01. symbol"]
	if symbol == "" {
		return nil, fmt.Errorf("global quote without symbol: %w", domain.ErrMalformedPayload)
	}

	price, err := decimal.NewFromString(fields["05. price"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse price of %s: %w", symbol, errors.Join(domain.ErrMalformedPayload, err))
	}
	change, err := decimal.NewFromString(fields["09. change"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse change of %s: %w", symbol, errors.Join(domain.ErrMalformedPayload, err))
	}
	pct, err := decimal.NewFromString(strings.TrimSuffix(fields["10. change percent"], "%"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse change percent of %s: %w", symbol, errors.Join(domain.ErrMalformedPayload, err))
	}
	volume, err := strconv.ParseInt(fields["06. volume"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volume of %s: %w", symbol, errors.Join(domain.ErrMalformedPayload, err))
	}

	return &domain.Quote{
		Symbol:        strings.ToUpper(symbol),
		Name:          symbol,
		Price:         price,
		Change:        change,
		ChangePercent: pct,
		Volume:        volume,
	}, nil
}

// get performs a GET request with exponential backoff and decodes the JSON body into result
func (c *Client) get(ctx context.Context, query url.Values, result any) error {
	query.Set("apikey", c.apiKey)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBackoff

	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		body, err := c.doRequest(ctx, query)
		if err == nil {
			return body, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return nil, backoff.Permanent(err)
		}

		c.log.Debug().
			Err(err).
			Int("attempt", attempt).
			Str("function", query.Get("function")).
			Msg("Upstream request failed")
		return nil, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(c.maxTries))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", errors.Join(domain.ErrMalformedPayload, err))
	}
	return nil
}

// doRequest performs one HTTP round trip
func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", errors.Join(domain.ErrTransportFailure, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", errors.Join(domain.ErrTransportFailure, err))
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	return body, nil
}
