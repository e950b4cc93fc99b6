package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultIPLookupURL is the public ipify endpoint.
const DefaultIPLookupURL = "https://api.ipify.org?format=json"

// IpifyClient looks up the caller's public IP. One request, no retry.
type IpifyClient struct {
	url        string
	httpClient *http.Client
}

func NewIpifyClient(url string, timeout time.Duration) *IpifyClient {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IpifyClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *IpifyClient) LookupIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ip lookup error: %s - %s", resp.Status, string(body))
	}

	var out struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.IP, nil
}
