package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string  `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password *string `json:"password" form:"password" validate:"required" example:"Secret123!"`
}
