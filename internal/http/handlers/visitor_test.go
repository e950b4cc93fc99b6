package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MegaUnlimited-io/farmcash-public/internal/platform"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// sameDeviceRequest builds requests that share IP, UA and timezone so
// only the visitor cookie tells callers apart.
func sameDeviceRequest(method, path string, visitor *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0")
	req.Header.Set("X-Timezone", "Europe/Berlin")
	req.RemoteAddr = "203.0.113.9:5555"
	if visitor != nil {
		req.AddCookie(visitor)
	}
	return req
}

func visitorRouter(storage StorageFactory) *gin.Engine {
	h := &Handler{Codes: fakeCodes{"QQ77ZZ": testReferrerID}, Storage: storage}
	r := gin.New()
	r.GET("/referral/capture", h.CaptureReferral)
	r.GET("/referral/stored", h.StoredReferral)
	r.DELETE("/referral/stored", h.ClearReferral)
	return r
}

func storedCode(t *testing.T, r *gin.Engine, visitor *http.Cookie) any {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, sameDeviceRequest(http.MethodGet, "/referral/stored", visitor))
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return dataField(t, resp)["code"]
}

func visitorCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == visitorCookie {
			return ck
		}
	}
	return nil
}

func TestVisitorIDIssuedOnce(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	id := visitorID(c, true)
	if uuid.Validate(id) != nil {
		t.Fatalf("id = %q", id)
	}
	if again := visitorID(c, true); again != id {
		t.Fatalf("second call = %q; want %q", again, id)
	}

	ck := visitorCookieFrom(t, w)
	if ck == nil || ck.Value != id || !ck.HttpOnly || !ck.Secure || ck.MaxAge <= 0 {
		t.Fatalf("cookie = %+v", ck)
	}
	if n := len(w.Result().Cookies()); n != 1 {
		t.Fatalf("cookies set = %d; want 1", n)
	}
}

func TestVisitorIDFromCookie(t *testing.T) {
	existing := uuid.NewString()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: visitorCookie, Value: existing})

	if id := visitorID(c, false); id != existing {
		t.Fatalf("id = %q; want %q", id, existing)
	}
	if ck := visitorCookieFrom(t, w); ck != nil {
		t.Fatalf("unexpected cookie %+v", ck)
	}
}

func TestVisitorIDReplacesMalformedCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: visitorCookie, Value: "farmcash:storage:other"})

	id := visitorID(c, false)
	if uuid.Validate(id) != nil {
		t.Fatalf("id = %q", id)
	}
	if ck := visitorCookieFrom(t, w); ck == nil || ck.Value != id {
		t.Fatalf("cookie = %+v", ck)
	}
}

// exerciseVisitorIsolation captures a code as one visitor and checks that a
// second visitor on the same device and network does not see or clear it.
func exerciseVisitorIsolation(t *testing.T, storage StorageFactory) {
	t.Helper()
	r := visitorRouter(storage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, sameDeviceRequest(http.MethodGet, "/referral/capture?ref=QQ77ZZ", nil))
	alice := visitorCookieFrom(t, w)
	if alice == nil {
		t.Fatalf("capture did not issue a visitor cookie")
	}

	bob := &http.Cookie{Name: visitorCookie, Value: uuid.NewString()}
	if got := storedCode(t, r, bob); got != nil {
		t.Fatalf("other visitor sees %v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, sameDeviceRequest(http.MethodDelete, "/referral/stored", bob))
	if got := storedCode(t, r, alice); got != "QQ77ZZ" {
		t.Fatalf("stored = %v; want QQ77ZZ", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, sameDeviceRequest(http.MethodDelete, "/referral/stored", alice))
	if got := storedCode(t, r, alice); got != nil {
		t.Fatalf("code not cleared: %v", got)
	}
}

func TestVisitorStoreIsolatesVisitors(t *testing.T) {
	stores := map[string]*platform.MemoryStorage{}
	exerciseVisitorIsolation(t, VisitorStore(false, func(visitor string) platform.Storage {
		s, ok := stores[visitor]
		if !ok {
			s = platform.NewMemoryStorage()
			stores[visitor] = s
		}
		return s
	}))
	if len(stores) != 2 {
		t.Fatalf("visitors = %d; want 2", len(stores))
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisStoreIsolatesVisitors(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	exerciseVisitorIsolation(t, RedisStore(client, false))
}
