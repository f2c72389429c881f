package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func protected() http.Handler {
	r := chi.NewRouter()
	r.Use(APIKeyAuth(map[string]string{"acme": "k-acme", "globex": "k-globex"}))
	r.With(RequireValidTenant).Get("/v1/{tenant}/x", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetTenantFromContext(r.Context())))
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"missing header", "/v1/acme/x", "", http.StatusUnauthorized, ""},
		{"wrong key", "/v1/acme/x", "Bearer nope", http.StatusUnauthorized, ""},
		{"bearer", "/v1/acme/x", "Bearer k-acme", http.StatusOK, "acme"},
		{"bare key", "/v1/globex/x", "k-globex", http.StatusOK, "globex"},
		{"other tenant", "/v1/globex/x", "Bearer k-acme", http.StatusForbidden, ""},
		{"bad tenant", "/v1/bad%20tenant/x", "Bearer k-acme", http.StatusBadRequest, ""},
	}
	h := protected()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}
