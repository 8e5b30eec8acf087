package domain

// OptimizedEdge is one persisted leg of a solved route. The key is the
// (start_location, customer_location) pair of the delivery record the leg
// departs from; a second write to the same key overwrites the stored
// distance (upsert), never creates a duplicate row.
type OptimizedEdge struct {
	StartLocation    string
	CustomerLocation string
	DistanceKM       float64
}

// TrainingSample is one row of delivery history joined with its optimized
// edge, used to fit the delivery-time model. DistanceKM is nil when no
// optimization run has touched the record's edge yet.
type TrainingSample struct {
	CustomerLocation string
	CustomerCoord    Coordinates
	Priority         string
	DeliveryTime     float64
	DistanceKM       *float64
}
