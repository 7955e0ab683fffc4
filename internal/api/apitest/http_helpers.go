package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"dispenser/internal/testutil"
	"dispenser/pkg/dispenser"
)

// HTTPSubmitBatch sends a POST /v1/batches request with a raw submission document.
func HTTPSubmitBatch(t testing.TB, baseURL string, document []byte) dispenser.BatchResponse {
	t.Helper()
	var resp dispenser.BatchResponse
	body := doRequest(t, http.MethodPost, baseURL+"/v1/batches", document)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode batch response: %v", err)
	}
	return resp
}

// HTTPRefill sends a POST /v1/refill request.
func HTTPRefill(t testing.TB, baseURL string, items dispenser.Stock) dispenser.Stock {
	t.Helper()
	data, err := json.Marshal(dispenser.RefillRequest{Items: items})
	if err != nil {
		t.Fatalf("marshal refill request: %v", err)
	}
	var resp dispenser.ItemsResponse
	body := doRequest(t, http.MethodPost, baseURL+"/v1/refill", data)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode refill response: %v", err)
	}
	return resp.Items
}

// HTTPItems sends a GET /v1/items request.
func HTTPItems(t testing.TB, baseURL string) dispenser.Stock {
	t.Helper()
	var resp dispenser.ItemsResponse
	body := doRequest(t, http.MethodGet, baseURL+"/v1/items", nil)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode items response: %v", err)
	}
	return resp.Items
}

// HTTPLowItems sends a GET /v1/items/low request.
func HTTPLowItems(t testing.TB, baseURL string) []dispenser.Resource {
	t.Helper()
	var resp dispenser.LowItemsResponse
	body := doRequest(t, http.MethodGet, baseURL+"/v1/items/low", nil)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode low items response: %v", err)
	}
	return resp.Items
}

// HTTPDo executes a request without checking its status.
func HTTPDo(t testing.TB, method, url string, payload []byte) (int, []byte) {
	t.Helper()
	ctx := testutil.Context(t, 2*time.Second)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}

// doRequest executes a request and fails the test on a non-2xx status.
func doRequest(t testing.TB, method, url string, payload []byte) []byte {
	t.Helper()
	status, body := HTTPDo(t, method, url, payload)
	if status < 200 || status >= 300 {
		t.Fatalf("unexpected status %d for %s %s: %s", status, method, url, string(body))
	}
	return body
}
