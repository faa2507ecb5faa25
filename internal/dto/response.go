package dto

// DataResponse is the success envelope used by every endpoint that wraps its
// payload in "data".
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func OK(data any) DataResponse {
	return DataResponse{Success: true, Data: data}
}

type ErrorBody struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	ErrorID    string `json:"errorId"`
	Field      string `json:"field,omitempty"`
	RetryAfter string `json:"retryAfter,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type HealthResponse struct {
	Success   bool    `json:"success"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	DB        string  `json:"db"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
