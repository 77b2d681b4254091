package travel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultBaseURL points at the Amadeus test environment.
	DefaultBaseURL = "https://test.api.amadeus.com"

	defaultTimeout = 15 * time.Second
	tokenPath      = "/v1/security/oauth2/token"

	flightOffersPath  = "/v2/shopping/flight-offers"
	flightOrdersPath  = "/v1/booking/flight-orders"
	hotelsByCityPath  = "/v1/reference-data/locations/hotels/by-city"
	hotelsByGeoPath   = "/v1/reference-data/locations/hotels/by-geocode"
	hotelsByIDsPath   = "/v1/reference-data/locations/hotels/by-hotels"
	hotelOffersPath   = "/v3/shopping/hotel-offers"
	hotelOrdersPath   = "/v2/booking/hotel-orders"
	tokenRetryBackoff = 500 * time.Millisecond
)

// Config holds provider client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
	Logger       zerolog.Logger
}

// Client talks to the travel provider. It is stateless apart from the cached
// bearer token, which is reused until its stated expiry.
type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	baseURL    string
	logger     zerolog.Logger

	// now is injectable so date-window validation is testable.
	now func() time.Time
}

// NewClient creates a provider client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("provider client id and secret are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// The token source reuses tokens until expiry and refreshes through the
	// same timed HTTP client.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	return &Client{
		httpClient: httpClient,
		tokens:     cc.TokenSource(tokenCtx),
		baseURL:    baseURL,
		logger:     cfg.Logger,
		now:        time.Now,
	}, nil
}

// token obtains a bearer token, retrying once after a short backoff.
func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := c.tokens.Token()
	if err == nil {
		return tok, nil
	}

	c.logger.Warn().Err(err).Msg("Token acquisition failed, retrying once")

	select {
	case <-ctx.Done():
		return nil, &AuthError{Err: ctx.Err()}
	case <-time.After(tokenRetryBackoff):
	}

	tok, err = c.tokens.Token()
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	return tok, nil
}

// getJSON issues an authorized GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	tok.SetAuthHeader(req)

	return c.do(req, out)
}

// postJSON issues an authorized POST with a JSON body and decodes the
// response body into out.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	tok.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "call provider", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", req.URL.Path).
			Str("body", string(body)).
			Msg("Provider request failed")
		return &ProviderError{StatusCode: resp.StatusCode, Detail: string(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: "decode response", Err: err}
	}
	return nil
}
