package dto

// SuccessResponse - стандартная обёртка успешного ответа.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ListResponse - успешный ответ со списком и числом элементов.
type ListResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
	Data    any    `json:"data"`
}

// ErrorResponse - ответ с ошибкой; Error содержит код из таксономии ошибок.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HealthResponse - ответ GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}
