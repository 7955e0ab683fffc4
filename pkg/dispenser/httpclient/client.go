package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dispenser/pkg/dispenser"
)

// Client talks to a remote dispenserd server.
type Client struct {
	baseURL string
	client  *http.Client
}

// New constructs a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: &http.Client{}}
}

// NewWithTimeout constructs a client for the given base URL with a request timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SubmitBatch posts a raw submission document and returns the batch outcomes.
func (c *Client) SubmitBatch(ctx context.Context, document []byte) (dispenser.BatchResponse, error) {
	var res dispenser.BatchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/batches", document, &res); err != nil {
		return dispenser.BatchResponse{}, err
	}
	return res, nil
}

// Refill adds items to the remote stock and returns the updated quantities.
func (c *Client) Refill(ctx context.Context, items dispenser.Stock) (dispenser.Stock, error) {
	payload, err := json.Marshal(dispenser.RefillRequest{Items: items})
	if err != nil {
		return nil, err
	}
	var res dispenser.ItemsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/refill", payload, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Items returns the remote all-item indicator.
func (c *Client) Items(ctx context.Context) (dispenser.Stock, error) {
	var res dispenser.ItemsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/items", nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// LowItems returns the remote low-item indicator.
func (c *Client) LowItems(ctx context.Context) ([]dispenser.Resource, error) {
	var res dispenser.LowItemsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/items/low", nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return decodeHTTPError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// HTTPError is returned for non-200 responses.
type HTTPError struct {
	Status int
	Code   string
	Issues []dispenser.FieldIssue
}

func (e *HTTPError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	if len(e.Issues) == 0 {
		return fmt.Sprintf("http %d: %s", e.Status, e.Code)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("http %d: %s (%s)", e.Status, e.Code, strings.Join(parts, "; "))
}

func decodeHTTPError(status int, body []byte) error {
	var resp dispenser.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &HTTPError{Status: status, Code: resp.Error, Issues: resp.Issues}
	}
	return &HTTPError{Status: status}
}
