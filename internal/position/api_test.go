package position

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// TestAPISourceSuccess verifies the open-notify wire format parses into a
// coordinate pair.
func TestAPISourceSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "success", "timestamp": 1714000000, "iss_position": {"latitude": "-12.4312", "longitude": "130.8562"}}`))
	}))
	defer server.Close()

	src := NewAPISource(server.URL, testLogger)
	coord, err := src.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(coord.Lat-(-12.4312)) > 1e-9 || math.Abs(coord.Lng-130.8562) > 1e-9 {
		t.Errorf("coordinate = %v, want -12.4312, 130.8562", coord)
	}
}

// TestAPISourceHTTPError verifies non-200 responses surface as *FetchError.
func TestAPISourceHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := NewAPISource(server.URL, testLogger)
	_, err := src.Current(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
}

// TestAPISourceTransportError verifies an unreachable endpoint surfaces as
// *FetchError rather than a panic or a raw error.
func TestAPISourceTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	src := NewAPISource(server.URL, testLogger)
	_, err := src.Current(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
}

// TestAPISourceMalformed covers parse failures: bad JSON, missing fields,
// non-numeric coordinates.
func TestAPISourceMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>busy</html>`},
		{name: "missing position", body: `{"message": "success"}`},
		{name: "non-numeric latitude", body: `{"iss_position": {"latitude": "north", "longitude": "130.8"}}`},
		{name: "non-numeric longitude", body: `{"iss_position": {"latitude": "-12.4", "longitude": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			src := NewAPISource(server.URL, testLogger)
			_, err := src.Current(context.Background())
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}
