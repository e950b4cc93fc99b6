package supabase

import (
	"context"
	"io"
	"net/http"
)

// VerifyResult is the upstream outcome of a verification exchange.
type VerifyResult struct {
	StatusCode int
	Success    bool
}

// Verify forwards a one-time token to the verify endpoint with the server-held
// key. Non-2xx responses are not errors: they are reported in the result so
// the caller can relay the status code. err is only set on transport failure.
func (c *Client) Verify(ctx context.Context, token, verifyType string) (*VerifyResult, error) {
	body := map[string]string{
		"token": token,
		"type":  verifyType,
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/auth/v1/verify", false), body, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return &VerifyResult{
		StatusCode: resp.StatusCode,
		Success:    resp.StatusCode >= 200 && resp.StatusCode <= 299,
	}, nil
}
