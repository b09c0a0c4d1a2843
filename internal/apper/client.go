// Package apper is the client for the managed record platform backing
// the storefront. It speaks the platform's table/record HTTP API and is
// the only component that knows about its wire shapes.
package apper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// API is the record-store boundary consumed by the services. Services
// take it as a constructor argument so tests can inject fakes.
type API interface {
	FetchRecords(ctx context.Context, table string, params FetchParams) (*FetchResult, error)
	GetRecordByID(ctx context.Context, table string, id int, params FetchParams) (*RecordResult, error)
	CreateRecord(ctx context.Context, table string, records []map[string]any) (*WriteResult, error)
	UpdateRecord(ctx context.Context, table string, records []map[string]any) (*WriteResult, error)
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL    string
	projectID  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a record platform client
func NewClient(baseURL, projectID, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		projectID: projectID,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRecords queries a table with field selection, filters and sorting
func (c *Client) FetchRecords(ctx context.Context, table string, params FetchParams) (*FetchResult, error) {
	var out FetchResult
	path := fmt.Sprintf("/api/v1/tables/%s/query", table)
	if err := c.do(ctx, http.MethodPost, path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecordByID fetches a single record, restricted to the given fields
func (c *Client) GetRecordByID(ctx context.Context, table string, id int, params FetchParams) (*RecordResult, error) {
	var out RecordResult
	path := fmt.Sprintf("/api/v1/tables/%s/records/%d/query", table, id)
	if err := c.do(ctx, http.MethodPost, path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecord inserts records into a table
func (c *Client) CreateRecord(ctx context.Context, table string, records []map[string]any) (*WriteResult, error) {
	var out WriteResult
	path := fmt.Sprintf("/api/v1/tables/%s/records", table)
	body := map[string]any{"records": records}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecord updates records in a table by their Id field
func (c *Client) UpdateRecord(ctx context.Context, table string, records []map[string]any) (*WriteResult, error) {
	var out WriteResult
	path := fmt.Sprintf("/api/v1/tables/%s/records", table)
	body := map[string]any{"records": records}
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project-Id", c.projectID)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("record api request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read record api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("record api returned status %d: %s", resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode record api response: %w", err)
	}
	return nil
}
