package server

// ApiResponse is the envelope every endpoint returns.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(data any) ApiResponse {
	return ApiResponse{Success: true, Data: data}
}

func fail(msg string) ApiResponse {
	return ApiResponse{Success: false, Error: msg}
}

// MealPlanRequest defines the payload for POST /v1/mealplan.
type MealPlanRequest struct {
	Days           int      `json:"days"`
	MaxCookingTime int      `json:"maxCookingTimeMinutes,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}
