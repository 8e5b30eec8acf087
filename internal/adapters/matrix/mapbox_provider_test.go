package matrix

import (
	"context"
	"delivery-optimization-service/internal/domain"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testCoords(n int) []domain.Coordinates {
	coords := make([]domain.Coordinates, n)
	for i := range coords {
		coords[i] = domain.Coordinates{Lon: 78.5 + float64(i), Lat: 17.4}
	}
	return coords
}

func TestFetchMatrixSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("annotations") != "distance" {
			t.Errorf("missing annotations=distance, query: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("access_token") == "" {
			t.Error("missing access_token")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","distances":[[0,1000],[null,0]]}`))
	}))
	defer srv.Close()

	p, err := NewMapboxMatrixProvider("test-key", srv.URL, 25, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	got, err := p.FetchMatrix(context.Background(), testCoords(2))
	if err != nil {
		t.Fatalf("fetch matrix: %v", err)
	}

	if len(got) != 2 || len(got[0]) != 2 {
		t.Fatalf("matrix shape %dx%d, want 2x2", len(got), len(got[0]))
	}
	if got[0][1] == nil || *got[0][1] != 1000 {
		t.Fatalf("got[0][1] = %v, want 1000", got[0][1])
	}
	// Unreachable pairs stay nil rather than becoming zeros or errors.
	if got[1][0] != nil {
		t.Fatalf("got[1][0] = %v, want nil", *got[1][0])
	}
	if hits.Load() != 1 {
		t.Fatalf("server hits = %d, want 1", hits.Load())
	}
}

func TestFetchMatrixTooManyLocations(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	p, err := NewMapboxMatrixProvider("test-key", srv.URL, 2, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	_, err = p.FetchMatrix(context.Background(), testCoords(3))

	var tooMany *TooManyLocationsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected TooManyLocationsError, got %v", err)
	}
	if tooMany.Count != 3 || tooMany.Limit != 2 {
		t.Fatalf("error = %+v, want count 3 limit 2", tooMany)
	}
	// The limit is enforced before any request is issued.
	if hits.Load() != 0 {
		t.Fatalf("server hits = %d, want 0", hits.Load())
	}
}

func TestFetchMatrixEmptyCoords(t *testing.T) {
	p, err := NewMapboxMatrixProvider("test-key", "http://unused.invalid", 25, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	got, err := p.FetchMatrix(context.Background(), nil)
	if err != nil {
		t.Fatalf("fetch matrix: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("matrix length = %d, want 0", len(got))
	}
}

func TestFetchMatrixServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"InvalidInput","message":"too large"}`))
	}))
	defer srv.Close()

	p, err := NewMapboxMatrixProvider("test-key", srv.URL, 25, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := p.FetchMatrix(context.Background(), testCoords(2)); err == nil {
		t.Fatal("expected error for response without distances")
	}
}

func TestFetchMatrixDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","distances":[[0,1000]]}`))
	}))
	defer srv.Close()

	p, err := NewMapboxMatrixProvider("test-key", srv.URL, 25, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := p.FetchMatrix(context.Background(), testCoords(2)); err == nil {
		t.Fatal("expected error for a 1x2 matrix over 2 coordinates")
	}
}
