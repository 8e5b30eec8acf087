package dto

type OptimizeRequest struct {
	NumVehicles int `json:"num_vehicles"`
	DepotIndex  int `json:"depot_index"`
}

type OptimizeResponse struct {
	RunID  string  `json:"run_id"`
	Status string  `json:"status"`
	Routes [][]int `json:"routes,omitempty"`
}
