// File: internal/model/user.go
package model

// User 對應 users 資料表；密碼目前以明文保存
type User struct {
	ID       int    `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}
