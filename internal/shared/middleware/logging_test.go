package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := recordStatus(rr)

	rec.WriteHeader(http.StatusNotFound)

	if rec.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d", rec.Status(), http.StatusNotFound)
	}
}

func TestStatusRecorder_KeepsFirstCode(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := recordStatus(rr)

	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusOK) // ignored

	if rec.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d (second WriteHeader should be ignored)", rec.Status(), http.StatusNotFound)
	}
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := recordStatus(rr)

	rec.Write([]byte("ok"))

	if rec.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want %d for a handler that never calls WriteHeader", rec.Status(), http.StatusOK)
	}
}

func TestLogging(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	handler := Logging(next)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("handler returned wrong status code: got %d want %d", rr.Code, http.StatusCreated)
	}
}
