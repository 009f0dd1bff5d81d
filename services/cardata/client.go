package cardata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the external vehicle-data API used to populate make and
// model pickers. Results are plain value slices so handlers can cache them.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a vehicle-data API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Make is a vehicle manufacturer entry
type Make struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Model is a vehicle model entry for a make
type Model struct {
	ID     int    `json:"id"`
	MakeID int    `json:"make_id"`
	Name   string `json:"name"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// ListMakes returns all known vehicle makes
func (c *Client) ListMakes(ctx context.Context) ([]Make, error) {
	var res listResponse[Make]
	if err := c.get(ctx, "/api/makes", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// ListModels returns the models for a make
func (c *Client) ListModels(ctx context.Context, makeName string) ([]Model, error) {
	params := url.Values{}
	params.Set("make", makeName)

	var res listResponse[Model]
	if err := c.get(ctx, "/api/models", params, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// ListYears returns the supported model years
func (c *Client) ListYears(ctx context.Context) ([]int, error) {
	var res listResponse[int]
	if err := c.get(ctx, "/api/years", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vehicle data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vehicle data API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
