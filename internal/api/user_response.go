package api

// swagger:model api.UserResponse
type UserResponse struct {
	Email string `json:"email" example:"alice@example.com"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	Message string `json:"message" example:"Login successful"`
	Email   string `json:"email" example:"alice@example.com"`
}
