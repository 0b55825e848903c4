package middlewares

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/eventsapi/internal/observability"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.Use(RequestID())
	r.POST("/api/events", rl.RateLimiterMiddleware(KeyByIP), okHandler)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send("10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d", i, w.Code)
		}
	}

	w := send("10.0.0.1:5678")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected a Retry-After header")
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != "rate_limited" || env.Error.RequestID == "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.Error.RequestID != w.Header().Get("X-Request-Id") {
		t.Fatalf("envelope request id %q does not match header", env.Error.RequestID)
	}

	if w := send("10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("other clients should not be limited, got %d", w.Code)
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)

	now := time.Now()
	rl.clients["a"] = &clientBucket{count: 1, windowEnd: now.Add(-time.Second)}
	rl.clients["b"] = &clientBucket{count: 1, windowEnd: now.Add(time.Minute)}

	if removed := rl.Sweep(now); removed != 1 {
		t.Fatalf("removed %d buckets, want 1", removed)
	}
	if _, ok := rl.clients["b"]; !ok {
		t.Fatalf("live bucket should be kept")
	}
}

func TestRateLimiter_EvictsOldestWhenFull(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	rl.maxClients = 3

	r := gin.New()
	r.POST("/api/events", rl.RateLimiterMiddleware(KeyByIP), okHandler)

	for i := 1; i <= 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d", i, w.Code)
		}
		if len(rl.clients) > rl.maxClients {
			t.Fatalf("tracking %d clients, cap is %d", len(rl.clients), rl.maxClients)
		}
	}

	if _, ok := rl.clients["10.0.0.10"]; !ok {
		t.Fatalf("newest client should be tracked")
	}
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Fatalf("oldest client should have been evicted")
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(RequireJSON())
	r.POST("/api/events", okHandler)
	r.GET("/api/events/1", okHandler)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		want        int
	}{
		{name: "json", method: http.MethodPost, path: "/api/events", contentType: "application/json", want: http.StatusOK},
		{name: "json_charset", method: http.MethodPost, path: "/api/events", contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "json_upper_case", method: http.MethodPost, path: "/api/events", contentType: "Application/JSON", want: http.StatusOK},
		{name: "hal", method: http.MethodPost, path: "/api/events", contentType: "application/hal+json", want: http.StatusOK},
		{name: "json_prefix_only", method: http.MethodPost, path: "/api/events", contentType: "application/jsonx", want: http.StatusUnsupportedMediaType},
		{name: "missing", method: http.MethodPost, path: "/api/events", want: http.StatusUnsupportedMediaType},
		{name: "form", method: http.MethodPost, path: "/api/events", contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "get_ignored", method: http.MethodGet, path: "/api/events/1", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(`{}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("got status %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireJSON_ErrorEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequireJSON())
	r.POST("/api/events", okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Request-Id", "req-415")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got status %d", w.Code)
	}

	env := decodeEnvelope(t, w)
	if env.Error.Code != "unsupported_media_type" || env.Error.RequestID != "req-415" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	for _, mt := range JSONMediaTypes {
		if !strings.Contains(env.Error.Message, mt) {
			t.Fatalf("message %q should list %s", env.Error.Message, mt)
		}
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), MaxBodyBytes(8))
	r.POST("/api/events", func(ctx *gin.Context) {
		if _, err := io.ReadAll(ctx.Request.Body); err != nil {
			ctx.Status(http.StatusRequestEntityTooLarge)
			return
		}
		ctx.Status(http.StatusOK)
	})

	t.Run("declared_length_rejected_up_front", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(`{"name":"Spring"}`)))

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("got status %d", w.Code)
		}
		if env := decodeEnvelope(t, w); env.Error.Code != "payload_too_large" || env.Error.RequestID == "" {
			t.Fatalf("unexpected envelope %+v", env)
		}
	})

	t.Run("undeclared_length_cut_by_reader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(`{"name":"Spring"}`))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("got status %d", w.Code)
		}
	})

	t.Run("small_body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(`{}`)))

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d", w.Code)
		}
	})
}

func TestRequestID_ReachesRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, observability.RequestIDFrom(ctx.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "abc-123" {
		t.Fatalf("request context carries %q", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(CtxRequestID))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(requestIDHeader)
		if id == "" || id != w.Body.String() {
			t.Fatalf("header %q and context %q should match", id, w.Body.String())
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "abc-123" {
			t.Fatalf("got %q, want abc-123", got)
		}
	})

	t.Run("oversized_replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); len(got) > 128 {
			t.Fatalf("oversized id was echoed back")
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.POST("/api/events", okHandler)
	r.OPTIONS("/api/events", okHandler)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("preflight got status %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Fatalf("unexpected allow origin %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != corsAllowMethods {
			t.Fatalf("unexpected allow methods %q", got)
		}
		if w.Header().Get("Vary") != "Origin" {
			t.Fatalf("expected Vary: Origin")
		}
	})

	t.Run("simple_request_exposes_location", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d", w.Code)
		}
		if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Location") {
			t.Fatalf("Location must be exposed to browsers")
		}
	})

	t.Run("plain_options_passes_through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d", w.Code)
		}
	})

	t.Run("unknown_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("unknown origin should not be allowed, got %q", got)
		}
	})
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"*"}))
	r.POST("/api/events", okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatalf("credentials must not be allowed for a wildcard origin")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders("/docs"))
	r.GET("/docs", okHandler)
	r.GET("/api/events/1", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/1", nil))
	if got := w.Header().Get("Content-Security-Policy"); got != apiCSP {
		t.Fatalf("unexpected CSP %q", got)
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain http")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))
	if got := w.Header().Get("Content-Security-Policy"); got != docsCSP {
		t.Fatalf("docs should get the swagger CSP, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events/1", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); got != hstsValue {
		t.Fatalf("unexpected HSTS %q", got)
	}
}
