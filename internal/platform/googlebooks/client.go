package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is wrapped by errors for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected status code")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	maxResults int
	backoff    time.Duration
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	RPS        int
	MaxRetries int
	MaxResults int
	HTTPClient *http.Client
}

const (
	defaultBaseURL    = "https://www.googleapis.com/books/v1"
	defaultMaxResults = 10
)

func NewClient(opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		maxRetries: opts.MaxRetries,
		maxResults: opts.MaxResults,
		backoff:    time.Second,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.maxResults <= 0 {
		c.maxResults = defaultMaxResults
	}
	if opts.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RPS)), 1)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return c
}

// Query holds the optional search terms. Empty terms are left out.
type Query struct {
	Title  string
	Author string
	ISBN   string
}

// String renders the q parameter, e.g. "intitle:dune inauthor:herbert".
// Spaces become "+" once the parameter is URL-encoded.
func (q Query) String() string {
	var terms []string
	if t := strings.TrimSpace(q.Title); t != "" {
		terms = append(terms, "intitle:"+t)
	}
	if a := strings.TrimSpace(q.Author); a != "" {
		terms = append(terms, "inauthor:"+a)
	}
	if i := strings.TrimSpace(q.ISBN); i != "" {
		terms = append(terms, "isbn:"+i)
	}
	return strings.Join(terms, " ")
}

// VolumesResponse matches GET /volumes.
type VolumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the fields we read. Every one of them may be absent.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// SearchVolumes queries /volumes. The request is sent even if q is empty;
// the provider decides what that means.
func (c *Client) SearchVolumes(ctx context.Context, q Query) (*VolumesResponse, error) {
	params := url.Values{}
	params.Set("q", q.String())
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := c.baseURL + "/volumes?" + params.Encode()

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * c.backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// do performs a single attempt and reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, url string, target any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
