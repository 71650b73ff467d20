package store

import (
	"context"
	"fmt"

	"medtrack/internal/database"
	"medtrack/internal/model"

	"github.com/jackc/pgx/v5"
)

func CreateMedication(ctx context.Context, q database.Querier, m *model.Medication) (*model.Medication, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO medications (name, activity, volume, preparation_date, batch_number, expiration_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		m.Name,
		m.Activity,
		m.Volume,
		m.PreparationDate,
		m.BatchNumber,
		m.ExpirationDate,
	)
	if err := row.Scan(&m.ID); err != nil {
		return nil, fmt.Errorf("CreateMedication: %w", err)
	}
	return m, nil
}

// ListMedications 依主鍵順序略過 skip 筆後最多回傳 limit 筆
func ListMedications(ctx context.Context, q database.Querier, skip, limit int) ([]model.Medication, error) {
	rows, err := q.Query(ctx,
		`SELECT id, name, activity, volume, preparation_date, batch_number, expiration_date
		 FROM medications
		 ORDER BY id
		 OFFSET $1 LIMIT $2`,
		skip,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ListMedications: %w", err)
	}

	meds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Medication, error) {
		var m model.Medication
		err := row.Scan(
			&m.ID,
			&m.Name,
			&m.Activity,
			&m.Volume,
			&m.PreparationDate,
			&m.BatchNumber,
			&m.ExpirationDate,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("ListMedications: %w", err)
	}
	return meds, nil
}
