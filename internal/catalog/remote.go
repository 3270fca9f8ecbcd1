package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteClient looks products up in an external catalog service over HTTP.
type RemoteClient struct {
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client
}

type productResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Entry  `json:"data"`
}

func NewRemoteClient(baseURL, username, password string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		Password: password,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *RemoteClient) Lookup(ctx context.Context, productID uint) (Entry, error) {
	url := fmt.Sprintf("%s/products/%d", c.BaseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		req.Header.Set("Authorization", "Basic "+auth)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Entry{}, ErrNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var response productResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Data.ProductID == 0 {
		response.Data.ProductID = productID
	}

	return response.Data, nil
}
