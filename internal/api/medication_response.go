package api

import (
	"medtrack/internal/model"
	"medtrack/internal/validation"
)

// swagger:model api.CreateMedicationResponse
type CreateMedicationResponse struct {
	Message    string `json:"message" example:"Medication registered successfully"`
	Medication int    `json:"medication" example:"1"`
}

// MedicationResponse 使用資料表的 snake_case 欄位名稱
// swagger:model api.MedicationResponse
type MedicationResponse struct {
	ID              int    `json:"id" example:"1"`
	Name            string `json:"name" example:"Paracetamol"`
	Activity        string `json:"activity" example:"Analgesic"`
	Volume          string `json:"volume" example:"500 mg"`
	PreparationDate string `json:"preparation_date" example:"2024-01-15T10:30:00"`
	BatchNumber     string `json:"batch_number" example:"B-2024-001"`
	ExpirationDate  string `json:"expiration_date" example:"2025-06-01"`
}

const preparationDateOutputLayout = "2006-01-02T15:04:05"

func NewMedicationResponse(m model.Medication) MedicationResponse {
	return MedicationResponse{
		ID:              m.ID,
		Name:            m.Name,
		Activity:        m.Activity,
		Volume:          m.Volume,
		PreparationDate: m.PreparationDate.Format(preparationDateOutputLayout),
		BatchNumber:     m.BatchNumber,
		ExpirationDate:  m.ExpirationDate.Format(validation.ExpirationDateLayout),
	}
}

// NewMedicationListResponse 空結果回傳 []，不回傳 null
func NewMedicationListResponse(ms []model.Medication) []MedicationResponse {
	out := make([]MedicationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMedicationResponse(m))
	}
	return out
}
