package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func TestValidateUUIDMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes a valid UUID through", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/transaction/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		ValidateUUIDMiddleware(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a malformed UUID", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/transaction/not-a-uuid", map[string]string{"uuid": "not-a-uuid"})
		w := httptest.NewRecorder()

		ValidateUUIDMiddleware(next).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a missing UUID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transaction/", nil)
		w := httptest.NewRecorder()

		ValidateUUIDMiddleware(next).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
