package handlers

import (
	"delivery-optimization-service/internal/api/dto"
	"delivery-optimization-service/internal/services"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
)

type PredictHandler struct {
	Predictor *services.Predictor
}

// Predict estimates the delivery time in minutes for an order bound for a
// known customer location.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PredictRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	location := strings.TrimSpace(req.CustomerLocation)
	if location == "" {
		writeError(w, r, http.StatusBadRequest, "customer_location is required")
		return
	}

	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		priority = "Medium"
	}

	minutes, err := h.Predictor.Predict(r.Context(), priority, location)
	if err != nil {
		log.Printf("predict failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PredictResponse{
		CustomerLocation: location,
		Priority:         priority,
		PredictedMinutes: minutes,
	})
}
