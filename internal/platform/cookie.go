package platform

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cookieMaxAge is roughly ten years; localStorage never expires either.
const cookieMaxAge = 10 * 365 * 24 * 60 * 60

// CookieStorage persists items as cookies on the visitor's browser. Writes
// made during a request are visible to later reads in the same request.
type CookieStorage struct {
	c       *gin.Context
	secure  bool
	pending map[string]*string
}

func NewCookieStorage(c *gin.Context, secure bool) *CookieStorage {
	return &CookieStorage{c: c, secure: secure, pending: make(map[string]*string)}
}

func (s *CookieStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	raw, err := s.c.Cookie(key)
	if err == http.ErrNoCookie {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (s *CookieStorage) SetItem(_ context.Context, key, value string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, cookieMaxAge, "/", "", s.secure, true)
	s.pending[key] = &value
	return nil
}

func (s *CookieStorage) RemoveItem(_ context.Context, key string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, "", -1, "/", "", s.secure, true)
	s.pending[key] = nil
	return nil
}
