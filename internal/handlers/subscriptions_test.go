package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/streamnexus/streamnexus/internal/subscriptions"
)

func newSubscriptionsEcho() *echo.Echo {
	h := NewSubscriptionsHandler(nil, subscriptions.NewService(nil, nil))
	e := echo.New()
	h.Register(e)
	return e
}

func TestRemoveValidation(t *testing.T) {
	t.Parallel()

	e := newSubscriptionsEcho()

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"non-numeric id", "/api/v1/subscriptions/abc?accountId=x", http.StatusBadRequest},
		{"missing account", "/api/v1/subscriptions/1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodDelete, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAddRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	e := newSubscriptionsEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
