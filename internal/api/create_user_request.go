package api

// CreateUserRequest 的密碼以指標接收：欄位必須存在，但允許空字串
// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email    string  `json:"email" form:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password *string `json:"password" form:"password" validate:"required,max=255" example:"Secret123!"`
}
