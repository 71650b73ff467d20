// File: internal/model/medication.go
package model

import "time"

// Medication 對應 medications 資料表
type Medication struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Activity        string    `db:"activity" json:"activity"`
	Volume          string    `db:"volume" json:"volume"`
	PreparationDate time.Time `db:"preparation_date" json:"preparation_date"`
	BatchNumber     string    `db:"batch_number" json:"batch_number"`
	ExpirationDate  time.Time `db:"expiration_date" json:"expiration_date"`
}
