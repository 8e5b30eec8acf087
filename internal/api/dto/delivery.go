package dto

type DeliveryResponse struct {
	ID               int     `json:"id"`
	OrderID          string  `json:"order_id"`
	StartLocation    string  `json:"start_location"`
	CustomerLocation string  `json:"customer_location"`
	Priority         string  `json:"priority"`
	DeliveryTime     float64 `json:"delivery_time"`
	VehicleID        string  `json:"vehicle_id"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}
