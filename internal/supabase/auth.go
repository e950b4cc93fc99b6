package supabase

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"time"
)

// User is the auth user record.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
}

// Session is an authenticated session. AccessToken is empty when the project
// requires email confirmation before issuing one.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user"`
}

// authResponse covers signup replies, which are either a session or a bare user.
type authResponse struct {
	Session
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (r *authResponse) session() *Session {
	s := r.Session
	if s.User == nil && r.ID != "" {
		s.User = &User{ID: r.ID, Email: r.Email}
	}
	return &s
}

// Session checks an access token and returns the session it belongs to.
func (c *Client) Session(ctx context.Context, accessToken string) (*Session, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint("/auth/v1/user", false), nil, accessToken)
	if err != nil {
		return nil, err
	}

	var u User
	if err := c.do(req, &u); err != nil {
		return nil, err
	}
	return &Session{AccessToken: accessToken, User: &u}, nil
}

// UserIDFromToken resolves the user id behind an access token by asking the
// auth API.
func (c *Client) UserIDFromToken(ctx context.Context, accessToken string) (string, error) {
	s, err := c.Session(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return s.User.ID, nil
}

// SignUp registers email. The backend requires a password even for
// magic-link accounts, so a random one is used when password is empty.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if password == "" {
		p, err := RandomPassword()
		if err != nil {
			return nil, err
		}
		password = p
	}

	body := map[string]string{
		"email":    email,
		"password": password,
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/auth/v1/signup", true), body, "")
	if err != nil {
		return nil, err
	}

	var out authResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

// SendMagicLink emails a passwordless login link.
func (c *Client) SendMagicLink(ctx context.Context, email string) error {
	body := map[string]any{
		"email":       email,
		"create_user": true,
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/auth/v1/otp", true), body, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/auth/v1/logout", false), nil, accessToken)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

const passwordAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomPassword returns 32 random base-36 characters.
func RandomPassword() (string, error) {
	buf := make([]byte, 32)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
