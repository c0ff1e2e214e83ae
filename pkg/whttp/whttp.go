package whttp

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0"

// DefaultTimeout bounds a single page fetch so one hanging host cannot
// stall a whole collection run.
const DefaultTimeout = 20 * time.Second

type WHTTPRes struct {
	StatusCode     int
	ResponseLength int
	BodyString     string
}

// Client is a retrying HTTP client with the defaults every outbound
// fetch shares: browser User-Agent, common headers, bounded timeout.
type Client struct {
	http *retryablehttp.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout

	return &Client{http: retryClient}
}

// Get fetches url and returns the response body as a string. Non-2xx
// responses are returned to the caller, not treated as errors here.
func (c *Client) Get(ctx context.Context, url string) (*WHTTPRes, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-transform")
	req.Header.Set("Accept-Language", "en")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &WHTTPRes{
		StatusCode:     resp.StatusCode,
		ResponseLength: len(bodyBytes),
		BodyString:     string(bodyBytes),
	}, nil
}
