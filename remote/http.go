package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZaguanLabs/verbiage"
)

// DefaultBaseURL is used when HTTPConfig.BaseURL is empty.
const DefaultBaseURL = "http://localhost:3000/api/verbiage"

const (
	lastUpdatePath = "/last-update"
	generatePath   = "/generate"

	// maxBodySize caps response bodies read from the remote.
	maxBodySize = 32 << 20
)

// HTTPSource implements Source over plain HTTP GET requests.
type HTTPSource struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// HTTPConfig holds configuration for the HTTP source.
type HTTPConfig struct {
	BaseURL   string        // Service root (default: DefaultBaseURL)
	Client    *http.Client  // HTTP client (default: client with Timeout)
	Timeout   time.Duration // Used only when Client is nil (default: 30s)
	UserAgent string        // Default: verbiage.UserAgent()
}

// NewHTTPSource creates a new HTTP source.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = verbiage.UserAgent()
	}

	return &HTTPSource{
		client:    client,
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// BaseURL returns the service root requests are sent to.
func (s *HTTPSource) BaseURL() string {
	return s.baseURL
}

// LastUpdate fetches the remote update timestamps.
func (s *HTTPSource) LastUpdate(ctx context.Context) (UpdateTimestamps, error) {
	const op = "last-update"
	endpoint := s.baseURL + lastUpdatePath

	body, err := s.get(ctx, op, endpoint)
	if err != nil {
		return UpdateTimestamps{}, err
	}

	ts, err := verbiage.DecodeTimestamps(body)
	if err != nil {
		return UpdateTimestamps{}, &verbiage.TransportError{Op: op, URL: endpoint, Cause: err}
	}
	return ts, nil
}

// Generate fetches terms for locales. An empty tag is omitted from the query.
func (s *HTTPSource) Generate(ctx context.Context, locales verbiage.LocaleSet, tag string) (TermsByLocale, error) {
	const op = "generate"

	endpoint := s.baseURL + generatePath + "?" + generateQuery(locales, tag)

	body, err := s.get(ctx, op, endpoint)
	if err != nil {
		return nil, err
	}

	terms, err := verbiage.DecodeTerms(body)
	if err != nil {
		return nil, &verbiage.TransportError{Op: op, URL: endpoint, Cause: err}
	}
	return terms, nil
}

func (s *HTTPSource) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &verbiage.TransportError{Op: op, URL: endpoint, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &verbiage.TransportError{Op: op, URL: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &verbiage.TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &verbiage.TransportError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return body, nil
}

// Verify HTTPSource implements Source
var _ Source = (*HTTPSource)(nil)

// generateQuery keeps the separator between locale codes a literal comma.
func generateQuery(locales verbiage.LocaleSet, tag string) string {
	codes := make([]string, len(locales))
	for i, code := range locales {
		codes[i] = url.QueryEscape(code)
	}
	query := "locales=" + strings.Join(codes, ",")
	if tag != "" {
		query += "&tag=" + url.QueryEscape(tag)
	}
	return query
}
