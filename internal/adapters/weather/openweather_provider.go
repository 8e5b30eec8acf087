package weather

import (
	"context"
	"delivery-optimization-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Delivery impact factors by severity of current conditions.
const (
	FactorNone     = 1.0
	FactorModerate = 1.2
	FactorHeavy    = 1.5
)

type conditionsResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// OpenWeatherProvider implements WeatherProvider using the OpenWeather
// current-conditions endpoint. Lookups are best effort: callers fall back
// to FactorNone when a lookup fails.
type OpenWeatherProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewOpenWeatherProvider(apiKey, baseURL string) (*OpenWeatherProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openweather api key is empty")
	}

	return &OpenWeatherProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

// Factor returns the delivery impact factor for current conditions at coord.
func (o *OpenWeatherProvider) Factor(ctx context.Context, coord domain.Coordinates) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL, nil)
	if err != nil {
		return 0, fmt.Errorf("weather request: %w", err)
	}

	q := req.URL.Query()
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	q.Set("appid", o.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return 0, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("weather request: unexpected status %d", resp.StatusCode)
	}

	var decoded conditionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode weather response: %w", err)
	}

	if len(decoded.Weather) == 0 {
		return 0, errors.New("weather response has no conditions")
	}

	switch decoded.Weather[0].Main {
	case "Rain", "Storm", "Snow":
		return FactorHeavy, nil
	case "Clouds", "Mist":
		return FactorModerate, nil
	default:
		return FactorNone, nil
	}
}
