package dto

type PredictRequest struct {
	Priority         string `json:"priority"`
	CustomerLocation string `json:"customer_location"`
}

type PredictResponse struct {
	CustomerLocation string  `json:"customer_location"`
	Priority         string  `json:"priority"`
	PredictedMinutes float64 `json:"predicted_minutes"`
}

type TrainResponse struct {
	Status string `json:"status"`
}
