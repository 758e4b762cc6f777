package wire

// UnaryRequest is the unary binding's inbound payload.
type UnaryRequest struct {
	Question string `json:"question"`
}

// UnaryResponse is the unary binding's success payload. ResponseTime equals
// Timing by definition on this path: the whole response materializes at
// once, so there is no first-fragment instant to measure.
type UnaryResponse struct {
	Response     string  `json:"response"`
	Timing       float64 `json:"timing"`
	ResponseTime float64 `json:"response_time"`
	Status       string  `json:"status"`
}

// UnaryError is the unary binding's failure payload.
type UnaryError struct {
	Error string `json:"error"`
}
