package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tripbuddy/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	r := gin.New()
	r.Use(rl.Limit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v; want [200 200 429]", codes)
	}

	// Another client has its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second client code = %d; want 200", w.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("10.0.0.1")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	rl.getLimiter("10.0.0.2")

	rl.Cleanup()

	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor was not removed")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor was removed")
	}
}

func TestTraceIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("trace_id")) })

	incoming := uuid.NewString()
	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{name: "reuses valid id", header: incoming, reuse: true},
		{name: "replaces invalid id", header: "not-a-uuid"},
		{name: "generates id", header: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(TraceIDHeader, tt.header)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(TraceIDHeader)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("trace id %q is not a uuid", got)
			}
			if tt.reuse && got != incoming {
				t.Fatalf("trace id = %q; want %q", got, incoming)
			}
			if w.Body.String() != got {
				t.Fatalf("context trace id %q differs from header %q", w.Body.String(), got)
			}
		})
	}
}

func TestIdentityMiddleware(t *testing.T) {
	token, err := utils.CreateToken("secret", "alice", time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	tests := []struct {
		name     string
		verifier utils.IdentityVerifier
		required bool
		header   string
		status   int
		identity string
		verified bool
	}{
		{name: "no verifier uses fallback", status: http.StatusOK, identity: "fallback"},
		{name: "valid token", verifier: utils.NewHMACVerifier("secret"), header: "Bearer " + token, status: http.StatusOK, identity: "alice", verified: true},
		{name: "optional without token ignores fallback", verifier: utils.NewHMACVerifier("secret"), status: http.StatusOK, identity: "", verified: true},
		{name: "required without token", verifier: utils.NewHMACVerifier("secret"), required: true, status: http.StatusUnauthorized},
		{name: "invalid token", verifier: utils.NewHMACVerifier("other"), header: "Bearer " + token, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(IdentityMiddleware(tt.verifier, tt.required))
			r.GET("/", func(c *gin.Context) {
				c.Header("X-Verification", strconv.FormatBool(VerificationEnabled(c)))
				c.String(http.StatusOK, Auth0ID(c, "fallback"))
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d; want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusOK && w.Body.String() != tt.identity {
				t.Fatalf("identity = %q; want %q", w.Body.String(), tt.identity)
			}
			if tt.status == http.StatusOK && w.Header().Get("X-Verification") != strconv.FormatBool(tt.verified) {
				t.Fatalf("verification = %q; want %v", w.Header().Get("X-Verification"), tt.verified)
			}
		})
	}
}
