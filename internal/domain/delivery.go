package domain

// Represents a single delivery order read from the store.
// A Delivery carries a start point (the dispatch hub) and a customer
// destination, both with resolved coordinates. The optimization core
// never mutates these records.
type Delivery struct {
	ID               int
	OrderID          string
	StartLocation    string
	CustomerLocation string
	StartCoord       Coordinates
	CustomerCoord    Coordinates
	Priority         string
	DeliveryTime     float64
	VehicleID        string
}
