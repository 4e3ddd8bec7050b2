package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"wanderplan/pkg/utils"
)

func newRouter(t *testing.T) (*gin.Engine, *utils.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	issuer, err := utils.NewTokenIssuer("secret")
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.Use(TraceIDMiddleware(), CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/me", JWTAuthMiddleware(issuer), func(c *gin.Context) {
		owner, ok := OwnerID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, owner.String())
	})
	return r, issuer
}

func TestJWTAuthMiddleware(t *testing.T) {
	r, issuer := newRouter(t)
	owner := uuid.New()
	token, _ := issuer.CreateToken(owner, "traveller")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != owner.String() {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Trace-ID") == "" {
		t.Fatal("trace id header missing")
	}

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestTraceIDReusesCallerID(t *testing.T) {
	r, _ := newRouter(t)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Trace-ID", id)
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Trace-ID"); got != id {
		t.Fatalf("trace id = %q, want %q", got, id)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Trace-ID", "<script>")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Trace-ID"); got == "<script>" || got == "" {
		t.Fatalf("untrusted trace id should be replaced, got %q", got)
	}
}
