// Package supabase is a thin client for the hosted backend's auth API. It
// passes requests and responses through without validation or retries.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an auth API client
type Client struct {
	baseURL     string
	apiKey      string
	redirectURL string
	httpClient  *http.Client
}

// NewClient creates a new auth API client. redirectURL is where emailed links
// land after verification (APP_URL + "/verify/").
func NewClient(baseURL, apiKey, redirectURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		redirectURL: redirectURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-2xx auth API response.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth API error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("auth API error %d: %s", e.Status, e.Message)
}

// parseAPIError understands both the {code, error_code, msg} and the OAuth
// style {error, error_description} bodies.
func parseAPIError(status int, body []byte) *APIError {
	var raw struct {
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &raw)

	e := &APIError{Status: status, Code: raw.ErrorCode}
	switch {
	case raw.Msg != "":
		e.Message = raw.Msg
	case raw.Message != "":
		e.Message = raw.Message
	case raw.ErrorDescription != "":
		e.Message = raw.ErrorDescription
		if e.Code == "" {
			e.Code = raw.Error
		}
	case raw.Error != "":
		e.Message = raw.Error
	default:
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	}
	return e
}

func (c *Client) endpoint(path string, redirect bool) string {
	u := c.baseURL + path
	if redirect && c.redirectURL != "" {
		u += "?redirect_to=" + url.QueryEscape(c.redirectURL)
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, url string, body any, accessToken string) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// do sends the request and decodes a 2xx body into out (if non-nil).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
