package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", []string{"http://localhost:5173/"}, "http://localhost:5173", http.MethodGet, http.StatusOK, "http://localhost:5173"},
		{"unknown origin", []string{"http://localhost:5173"}, "http://evil.test", http.MethodGet, http.StatusOK, ""},
		{"wildcard", []string{"*"}, "http://any.test", http.MethodGet, http.StatusOK, "http://any.test"},
		{"preflight allowed", []string{"http://localhost:5173"}, "http://localhost:5173", http.MethodOptions, http.StatusNoContent, "http://localhost:5173"},
		{"preflight unknown", []string{"http://localhost:5173"}, "http://evil.test", http.MethodOptions, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			CORS(tt.allowed, next).ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.method == http.MethodOptions && tt.wantOrigin != "" {
				assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}
