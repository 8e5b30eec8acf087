package api

import (
	"delivery-optimization-service/internal/api/handlers"
	"delivery-optimization-service/internal/platform/obs"
	"delivery-optimization-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(optimizer *services.Optimizer, predictor *services.Predictor) http.Handler {
	mux := http.NewServeMux()

	deliveryHandler := &handlers.DeliveryHandler{Repo: optimizer.Deliveries}
	optimizeHandler := &handlers.OptimizeHandler{Optimizer: optimizer, Predictor: predictor}
	predictHandler := &handlers.PredictHandler{Predictor: predictor}
	trainHandler := &handlers.TrainHandler{Predictor: predictor}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/deliveries", deliveryHandler.List)
	mux.HandleFunc("/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/predict", predictHandler.Predict)
	mux.HandleFunc("/model/train", trainHandler.Train)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
