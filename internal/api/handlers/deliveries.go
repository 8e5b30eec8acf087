package handlers

import (
	"delivery-optimization-service/internal/api/dto"
	"delivery-optimization-service/internal/ports"
	"log"
	"net/http"
)

type DeliveryHandler struct {
	Repo ports.DeliveryRepository
}

// List returns every delivery record in insertion order.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	deliveries, err := h.Repo.ListDeliveries(r.Context())
	if err != nil {
		log.Printf("list deliveries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListDeliveriesResponse{Deliveries: make([]dto.DeliveryResponse, 0, len(deliveries))}
	for _, d := range deliveries {
		res.Deliveries = append(res.Deliveries, dto.DeliveryResponse{
			ID:               d.ID,
			OrderID:          d.OrderID,
			StartLocation:    d.StartLocation,
			CustomerLocation: d.CustomerLocation,
			Priority:         d.Priority,
			DeliveryTime:     d.DeliveryTime,
			VehicleID:        d.VehicleID,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
