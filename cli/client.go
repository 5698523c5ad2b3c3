package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles API requests to the cargoflow backend
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("CARGOFLOW_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
		Token:   os.Getenv("CARGOFLOW_TOKEN"),
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

func (c *ApiClient) do(method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListResponse is the standard list envelope
type ListResponse struct {
	Results []map[string]interface{} `json:"results"`
	Count   int                      `json:"count"`
}

// GroupedResponse is the shipping-mark aggregation envelope
type GroupedResponse struct {
	Groups []struct {
		ShippingMark  string `json:"shipping_mark"`
		ItemCount     int    `json:"item_count"`
		TotalQuantity int    `json:"total_quantity"`
		TotalCbm      string `json:"total_cbm"`
		TotalWeight   string `json:"total_weight"`
	} `json:"groups"`
	Count int `json:"count"`
}

// ListItems fetches one page of warehouse items
func (c *ApiClient) ListItems(query string) (*ListResponse, error) {
	var out ListResponse
	if err := c.do(http.MethodGet, "/api/items"+query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGrouped fetches the shipping-mark aggregation
func (c *ApiClient) ListGrouped(query string) (*GroupedResponse, error) {
	var out GroupedResponse
	if err := c.do(http.MethodGet, "/api/items/grouped"+query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeItemStatus requests a status transition for one item
func (c *ApiClient) ChangeItemStatus(id string, status string) error {
	payload := map[string]string{"status": status}
	return c.do(http.MethodPost, "/api/items/"+id+"/status", payload, nil)
}

// ListClaims fetches one page of claims
func (c *ApiClient) ListClaims(query string) (*ListResponse, error) {
	var out ListResponse
	if err := c.do(http.MethodGet, "/api/claims"+query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FileClaim submits a new claim
func (c *ApiClient) FileClaim(trackingID, itemName, description string) error {
	payload := map[string]interface{}{
		"tracking_id": trackingID,
		"item_name":   itemName,
		"description": description,
	}
	return c.do(http.MethodPost, "/api/claims", payload, nil)
}
