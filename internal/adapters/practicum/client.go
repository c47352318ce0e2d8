package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/infra/metrics"
)

// DefaultEndpoint — адрес API статусов домашних работ.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// Client запрашивает статусы домашних работ.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("practicum token is required")
	}
	client := &Client{
		endpoint:   DefaultEndpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	if _, err := url.Parse(client.endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	return client, nil
}

// GetAPIAnswer запрашивает статусы начиная с timestamp. Нулевой timestamp
// заменяется текущим временем.
func (c *Client) GetAPIAnswer(ctx context.Context, timestamp int64) (answer any, err error) {
	if timestamp == 0 {
		timestamp = c.now().Unix()
	}
	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("practicum", "homework_statuses", start, err)
	}()

	req, err := c.newRequest(ctx, timestamp)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("practicum request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.HTTPRequestError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return answer, nil
}

func (c *Client) newRequest(ctx context.Context, timestamp int64) (*http.Request, error) {
	resolved, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	query := resolved.Query()
	query.Set("from_date", strconv.FormatInt(timestamp, 10))
	resolved.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

var _ domain.StatusSource = (*Client)(nil)
