package handlers

import (
	"delivery-optimization-service/internal/api/dto"
	"delivery-optimization-service/internal/services"
	"log"
	"net/http"
)

type TrainHandler struct {
	Predictor *services.Predictor
}

// Train refits the delivery time model from the current delivery history.
func (h *TrainHandler) Train(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.Predictor.Train(r.Context()); err != nil {
		log.Printf("train failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TrainResponse{Status: "trained"})
}
