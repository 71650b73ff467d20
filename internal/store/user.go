package store

import (
	"context"
	"fmt"

	"medtrack/internal/database"
	"medtrack/internal/model"
)

func CreateUser(ctx context.Context, q database.Querier, u *model.User) (*model.User, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO users (email, password)
		 VALUES ($1, $2)
		 RETURNING id`,
		u.Email,
		u.Password,
	)
	if err := row.Scan(&u.ID); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// GetUserByCredentials 以 email 與密碼同時比對（區分大小寫的等值比較）；查無資料時回傳 pgx.ErrNoRows
func GetUserByCredentials(ctx context.Context, q database.Querier, email, password string) (*model.User, error) {
	row := q.QueryRow(ctx,
		`SELECT id, email, password
		 FROM users WHERE email = $1 AND password = $2
		 LIMIT 1`,
		email,
		password,
	)
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password); err != nil {
		return nil, fmt.Errorf("GetUserByCredentials: %w", err)
	}
	return u, nil
}
