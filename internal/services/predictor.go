package services

import (
	"context"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/platform/obs"
	"delivery-optimization-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
)

// Predictor estimates delivery times from order priority, the optimized
// route distance, and current weather at the destination. The model is a
// least-squares linear fit over delivery history, held in memory and
// refreshed after every successful optimization run.
type Predictor struct {
	Routes     ports.RouteRepository
	Weather    ports.WeatherProvider
	FallbackKM float64

	mu      sync.RWMutex
	coef    []float64 // intercept, priority, distance_km, weather_factor
	trained bool
}

func priorityScore(priority string) float64 {
	switch priority {
	case "High":
		return 3
	case "Low":
		return 1
	default:
		return 2
	}
}

// weatherFactor looks up the delivery impact factor, degrading to no impact
// when the provider is absent or the lookup fails.
func (p *Predictor) weatherFactor(ctx context.Context, location string, coord domain.Coordinates) float64 {
	if p.Weather == nil {
		return 1.0
	}

	factor, err := p.Weather.Factor(ctx, coord)
	if err != nil {
		log.Printf("weather lookup failed for %q: %v (using default factor)", location, err)
		return 1.0
	}
	return factor
}

// Train fits the model from delivery history joined with optimized edges.
// Rows without an optimized distance use the configured fallback.
func (p *Predictor) Train(ctx context.Context) (err error) {
	defer obs.Time(ctx, "services.PredictorTrain")(&err)

	samples, err := p.Routes.ListTrainingSamples(ctx)
	if err != nil {
		return fmt.Errorf("train model: list samples: %w", err)
	}
	if len(samples) == 0 {
		return errors.New("train model: no training data")
	}

	features := make([][]float64, 0, len(samples))
	targets := make([]float64, 0, len(samples))
	for _, s := range samples {
		km := p.FallbackKM
		if s.DistanceKM != nil {
			km = *s.DistanceKM
		}

		features = append(features, []float64{
			1,
			priorityScore(s.Priority),
			km,
			p.weatherFactor(ctx, s.CustomerLocation, s.CustomerCoord),
		})
		targets = append(targets, s.DeliveryTime)
	}

	coef, err := fitLeastSquares(features, targets)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	p.mu.Lock()
	p.coef = coef
	p.trained = true
	p.mu.Unlock()

	log.Printf("delivery time model trained samples=%d", len(samples))
	return nil
}

// Predict returns the estimated delivery time in minutes for an order with
// the given priority bound for customerLocation. The model is trained
// lazily on first use.
func (p *Predictor) Predict(ctx context.Context, priority, customerLocation string) (float64, error) {
	p.mu.RLock()
	trained := p.trained
	p.mu.RUnlock()

	if !trained {
		if err := p.Train(ctx); err != nil {
			return 0, fmt.Errorf("predict: %w", err)
		}
	}

	// Resolve the customer's optimized distance and coordinates from the
	// same joined view the model trains on.
	km := p.FallbackKM
	var coord domain.Coordinates
	samples, err := p.Routes.ListTrainingSamples(ctx)
	if err != nil {
		return 0, fmt.Errorf("predict: list samples: %w", err)
	}
	for _, s := range samples {
		if s.CustomerLocation == customerLocation {
			if s.DistanceKM != nil {
				km = *s.DistanceKM
			}
			coord = s.CustomerCoord
			break
		}
	}

	x := []float64{
		1,
		priorityScore(priority),
		km,
		p.weatherFactor(ctx, customerLocation, coord),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var pred float64
	for i, c := range p.coef {
		pred += c * x[i]
	}
	return pred, nil
}

// fitLeastSquares solves the normal equations X'X b = X'y by Gaussian
// elimination with partial pivoting. A small ridge term keeps the system
// solvable when features are collinear (e.g. uniform weather).
func fitLeastSquares(features [][]float64, targets []float64) ([]float64, error) {
	if len(features) == 0 {
		return nil, errors.New("fit: no rows")
	}

	k := len(features[0])
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k+1) // augmented with X'y
	}

	for r, row := range features {
		if len(row) != k {
			return nil, fmt.Errorf("fit: row %d has %d features, want %d", r, len(row), k)
		}
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xtx[i][k] += row[i] * targets[r]
		}
	}

	const ridge = 1e-8
	for i := 0; i < k; i++ {
		xtx[i][i] += ridge
	}

	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(xtx[r][col]) > math.Abs(xtx[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(xtx[pivot][col]) < 1e-12 {
			return nil, errors.New("fit: singular system")
		}
		xtx[col], xtx[pivot] = xtx[pivot], xtx[col]

		for r := 0; r < k; r++ {
			if r == col {
				continue
			}
			f := xtx[r][col] / xtx[col][col]
			for c := col; c <= k; c++ {
				xtx[r][c] -= f * xtx[col][c]
			}
		}
	}

	coef := make([]float64, k)
	for i := 0; i < k; i++ {
		coef[i] = xtx[i][k] / xtx[i][i]
	}
	return coef, nil
}
