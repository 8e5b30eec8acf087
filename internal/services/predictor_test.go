package services

import (
	"context"
	"delivery-optimization-service/internal/domain"
	"errors"
	"math"
	"testing"
)

type fakeWeatherProvider struct {
	factor float64
	err    error
}

func (f *fakeWeatherProvider) Factor(ctx context.Context, coord domain.Coordinates) (float64, error) {
	return f.factor, f.err
}

// linearSamples encodes time = 10 + 5*priority + 0.1*km so the fit has an
// exact solution to recover.
func linearSamples() []domain.TrainingSample {
	mk := func(location, priority string, km, minutes float64) domain.TrainingSample {
		return domain.TrainingSample{
			CustomerLocation: location,
			CustomerCoord:    domain.Coordinates{Lon: 78.5, Lat: 17.4},
			Priority:         priority,
			DeliveryTime:     minutes,
			DistanceKM:       &km,
		}
	}
	return []domain.TrainingSample{
		mk("Chennai Central", "High", 100, 35),
		mk("Pune Junction", "Medium", 200, 40),
		mk("Mumbai CST", "Low", 300, 45),
		mk("New Delhi", "High", 300, 55),
	}
}

func TestPredictorRecoversLinearModel(t *testing.T) {
	routes := newFakeRouteRepo()
	routes.samples = linearSamples()

	p := &Predictor{Routes: routes, FallbackKM: 200}
	if err := p.Train(context.Background()); err != nil {
		t.Fatalf("train: %v", err)
	}

	// Pune Junction: priority Medium (2), km 200 -> 10 + 10 + 20 = 40.
	got, err := p.Predict(context.Background(), "Medium", "Pune Junction")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-40) > 1e-3 {
		t.Fatalf("prediction = %v, want 40", got)
	}

	// High priority to the same destination: 10 + 15 + 20 = 45.
	got, err = p.Predict(context.Background(), "High", "Pune Junction")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-45) > 1e-3 {
		t.Fatalf("prediction = %v, want 45", got)
	}
}

func TestPredictorTrainsLazily(t *testing.T) {
	routes := newFakeRouteRepo()
	routes.samples = linearSamples()

	p := &Predictor{Routes: routes, FallbackKM: 200}

	got, err := p.Predict(context.Background(), "Low", "Mumbai CST")
	if err != nil {
		t.Fatalf("predict without explicit train: %v", err)
	}
	if math.Abs(got-45) > 1e-3 {
		t.Fatalf("prediction = %v, want 45", got)
	}
}

func TestPredictorFallbackDistance(t *testing.T) {
	routes := newFakeRouteRepo()
	routes.samples = linearSamples()
	// An unoptimized destination with no stored distance.
	routes.samples = append(routes.samples, domain.TrainingSample{
		CustomerLocation: "Howrah Junction",
		CustomerCoord:    domain.Coordinates{Lon: 88.34, Lat: 22.58},
		Priority:         "Medium",
		DeliveryTime:     50, // 10 + 10 + 0.1*200 fallback = 40; off-model on purpose
	})

	p := &Predictor{Routes: routes, FallbackKM: 200}
	if err := p.Train(context.Background()); err != nil {
		t.Fatalf("train: %v", err)
	}

	// Prediction for the fallback row must be finite and use km=200, so it
	// lands between the exact rows around it rather than at zero distance.
	got, err := p.Predict(context.Background(), "Medium", "Howrah Junction")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("prediction = %v, want a finite value", got)
	}
	if got < 30 || got > 60 {
		t.Fatalf("prediction = %v, want within the training range", got)
	}
}

func TestPredictorWeatherDegradesOnError(t *testing.T) {
	routes := newFakeRouteRepo()
	routes.samples = linearSamples()

	p := &Predictor{
		Routes:     routes,
		Weather:    &fakeWeatherProvider{err: errors.New("service down")},
		FallbackKM: 200,
	}
	if err := p.Train(context.Background()); err != nil {
		t.Fatalf("train with failing weather: %v", err)
	}

	got, err := p.Predict(context.Background(), "Medium", "Pune Junction")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// With the factor degraded to 1.0 everywhere the fit matches the
	// weatherless model exactly.
	if math.Abs(got-40) > 1e-3 {
		t.Fatalf("prediction = %v, want 40", got)
	}
}

func TestPredictorNoTrainingData(t *testing.T) {
	p := &Predictor{Routes: newFakeRouteRepo(), FallbackKM: 200}

	if err := p.Train(context.Background()); err == nil {
		t.Fatal("expected error for empty training set")
	}
	if _, err := p.Predict(context.Background(), "High", "Anywhere"); err == nil {
		t.Fatal("expected predict to surface the training error")
	}
}

func TestFitLeastSquaresExact(t *testing.T) {
	// y = 2 + 3*x1 - 0.5*x2 over well-conditioned rows.
	features := [][]float64{
		{1, 1, 2},
		{1, 2, 1},
		{1, 3, 5},
		{1, 5, 3},
	}
	targets := make([]float64, len(features))
	for i, row := range features {
		targets[i] = 2 + 3*row[1] - 0.5*row[2]
	}

	coef, err := fitLeastSquares(features, targets)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	want := []float64{2, 3, -0.5}
	for i := range want {
		if math.Abs(coef[i]-want[i]) > 1e-6 {
			t.Fatalf("coef[%d] = %v, want %v", i, coef[i], want[i])
		}
	}
}
