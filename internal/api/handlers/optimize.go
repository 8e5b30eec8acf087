package handlers

import (
	"delivery-optimization-service/internal/adapters/matrix"
	"delivery-optimization-service/internal/api/dto"
	"delivery-optimization-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

type OptimizeHandler struct {
	Optimizer *services.Optimizer
	Predictor *services.Predictor
}

// Optimize runs one full optimization pass over the stored deliveries and,
// on success, refreshes the delivery time model from the new edges.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	numVehicles := req.NumVehicles
	if numVehicles == 0 {
		numVehicles = 2
	}
	if numVehicles < 1 || numVehicles > 10 {
		writeError(w, r, http.StatusBadRequest, "num_vehicles must be between 1 and 10")
		return
	}
	if req.DepotIndex < 0 {
		writeError(w, r, http.StatusBadRequest, "depot_index must not be negative")
		return
	}

	result, err := h.Optimizer.OptimizeRoutes(r.Context(), services.OptimizeRequest{
		NumVehicles: numVehicles,
		DepotIndex:  req.DepotIndex,
	})
	if err != nil {
		var tooMany *matrix.TooManyLocationsError
		if errors.As(err, &tooMany) {
			writeError(w, r, http.StatusUnprocessableEntity, tooMany.Error())
			return
		}

		log.Printf("optimize failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if result.Status == services.StatusOK && h.Predictor != nil {
		if err := h.Predictor.Train(r.Context()); err != nil {
			log.Printf("model refresh after optimize failed: %v", err)
		}
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		RunID:  result.RunID,
		Status: string(result.Status),
		Routes: result.Routes,
	})
}
