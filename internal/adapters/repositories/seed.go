package repositories

import (
	"delivery-optimization-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DeliverySeed mirrors one entry of the JSON seed file. Coordinates are
// fixed in the file; this service does no geocoding.
type DeliverySeed struct {
	OrderID           string  `json:"order_id"`
	StartLocation     string  `json:"start_location"`
	CustomerLocation  string  `json:"customer_location"`
	StartLatitude     float64 `json:"start_latitude"`
	StartLongitude    float64 `json:"start_longitude"`
	CustomerLatitude  float64 `json:"customer_latitude"`
	CustomerLongitude float64 `json:"customer_longitude"`
	OrderPriority     string  `json:"order_priority"`
	DeliveryTime      float64 `json:"delivery_time"`
	VehicleID         string  `json:"vehicle_id"`
}

func loadSeedFile(jsonPath string) ([]DeliverySeed, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed deliveries: read %q: %w", jsonPath, err)
	}

	var data []DeliverySeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("seed deliveries: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.OrderID) == "" {
			return nil, fmt.Errorf("seed deliveries: entry %d: order_id cannot be empty", i+1)
		}
		if strings.TrimSpace(item.StartLocation) == "" || strings.TrimSpace(item.CustomerLocation) == "" {
			return nil, fmt.Errorf("seed deliveries: entry %d: locations cannot be empty", i+1)
		}

		start := domain.Coordinates{Lon: item.StartLongitude, Lat: item.StartLatitude}
		customer := domain.Coordinates{Lon: item.CustomerLongitude, Lat: item.CustomerLatitude}
		if !start.Valid() || !customer.Valid() {
			return nil, fmt.Errorf("seed deliveries: entry %d: coordinates out of range", i+1)
		}
	}

	return data, nil
}
