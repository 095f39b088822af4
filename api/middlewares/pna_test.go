package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestMakePNA(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	pna := MakePNA()

	tests := []struct {
		name    string
		method  string
		header  string
		allowed string
	}{
		{"preflight with private network request", http.MethodOptions, "true", "true"},
		{"get request", http.MethodGet, "true", ""},
		{"preflight without private network request", http.MethodOptions, "", ""},
		{"preflight with other header value", http.MethodOptions, "false", ""},
		{"post request", http.MethodPost, "true", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/", nil)
			if tc.header != "" {
				req.Header.Set(pnaRequestHeader, tc.header)
			}
			rec := httptest.NewRecorder()

			err := pna(handler)(e.NewContext(req, rec))
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, rec.Header().Get(pnaAllowHeader))
			assert.Equal(t, "OK", rec.Body.String())
		})
	}
}
