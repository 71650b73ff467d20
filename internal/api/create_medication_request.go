package api

// CreateMedicationRequest 使用前端的 camelCase 欄位名稱，日期以字串傳入再由 handler 解析
// 文字欄位為指標：缺少欄位回 400，空字串照常寫入
// swagger:model api.CreateMedicationRequest
type CreateMedicationRequest struct {
	Name            *string `json:"name" form:"name" validate:"required,max=255" example:"Paracetamol"`
	Activity        *string `json:"activity" form:"activity" validate:"required,max=255" example:"Analgesic"`
	Volume          *string `json:"volume" form:"volume" validate:"required,max=50" example:"500 mg"`
	PreparationDate *string `json:"preparationDate" form:"preparationDate" validate:"required" example:"2024-01-15 10:30:00"`
	BatchNumber     *string `json:"batchNumber" form:"batchNumber" validate:"required,max=100" example:"B-2024-001"`
	ExpirationDate  *string `json:"expirationDate" form:"expirationDate" validate:"required" example:"2025-06-01"`
}
