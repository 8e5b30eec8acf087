package matrix

import (
	"context"
	"delivery-optimization-service/internal/adapters/cache"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMaxLocations is the Mapbox Directions-Matrix API limit on unique
// coordinates per request.
const DefaultMaxLocations = 25

// TooManyLocationsError reports a coordinate set that exceeds the provider
// limit. It is raised client-side, before any network call is issued.
type TooManyLocationsError struct {
	Count int
	Limit int
}

func (e *TooManyLocationsError) Error() string {
	return fmt.Sprintf("too many locations (%d) for matrix API limit (max %d)", e.Count, e.Limit)
}

type matrixResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

// MapboxMatrixProvider implements MatrixProvider using the Mapbox
// Directions-Matrix API.
//
// It coordinates:
//   - A client-side coordinate count limit
//   - An optional cached matrix per coordinate set
//   - External API calls with rate limiting and retry/backoff
//
// The provider is safe for concurrent use.
type MapboxMatrixProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	maxLocations int
	limiter      *rate.Limiter
	cache        *cache.RedisMatrixCache
}

func NewMapboxMatrixProvider(apiKey, baseURL string, maxLocations int, matrixCache *cache.RedisMatrixCache) (*MapboxMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("mapbox api key is empty")
	}
	if maxLocations <= 0 {
		maxLocations = DefaultMaxLocations
	}

	provider := &MapboxMatrixProvider{
		session:      &http.Client{Timeout: 15 * time.Second},
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxLocations: maxLocations,
		// Mapbox allows 60 matrix requests per minute on the free tier.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		cache:   matrixCache,
	}

	return provider, nil
}

// FetchMatrix returns the pairwise road distance matrix for the coordinate
// list, in the given order. Unreachable pairs stay nil in the result; only
// a malformed or error response fails the call.
func (m *MapboxMatrixProvider) FetchMatrix(ctx context.Context, coords []domain.Coordinates) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "mapbox.FetchMatrix")(&err)
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		obs.MatrixRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	if len(coords) == 0 {
		return domain.DistanceMatrix{}, nil
	}

	if len(coords) > m.maxLocations {
		return nil, &TooManyLocationsError{Count: len(coords), Limit: m.maxLocations}
	}

	key := cache.MatrixKey(coords)
	if m.cache != nil {
		hit, ok, cerr := m.cache.Get(ctx, key)
		if cerr != nil {
			log.Printf("matrix cache read failed: %v", cerr)
		} else if ok {
			return hit, nil
		}
	}

	endpoint := m.baseURL + "/" + coordinatePath(coords)

	resp, err := m.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := m.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("annotations", "distance")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	// The distances field is the contract; its absence means the service
	// rejected the request even under HTTP 200.
	if mr.Distances == nil {
		return nil, fmt.Errorf("matrix service error: code=%q message=%q", mr.Code, mr.Message)
	}

	n := len(coords)
	if len(mr.Distances) != n {
		return nil, fmt.Errorf("matrix has %d rows, want %d", len(mr.Distances), n)
	}
	for i, row := range mr.Distances {
		if len(row) != n {
			return nil, fmt.Errorf("matrix row %d has %d entries, want %d", i, len(row), n)
		}
	}

	out := domain.DistanceMatrix(mr.Distances)

	if m.cache != nil {
		if cerr := m.cache.Put(ctx, key, out); cerr != nil {
			log.Printf("matrix cache write failed: %v", cerr)
		}
	}

	return out, nil
}

// coordinatePath renders coordinates as the "lon,lat;lon,lat" URL segment
// the matrix endpoint expects.
func coordinatePath(coords []domain.Coordinates) string {
	var b strings.Builder
	for i, c := range coords {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
	}
	return b.String()
}
