// Package sqlerr 解析 Postgres 驅動回傳的錯誤並轉成 API 錯誤
package sqlerr

import (
	"errors"
	"strings"

	"medtrack/internal/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code 是 SQLSTATE 的簡化分類
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	IntegrityViolation
)

// SQLSTATE class 23: integrity_constraint_violation
const integrityClass = "23"

// Classify 依照 *pgconn.PgError 的 SQLSTATE 分類；非 Postgres 錯誤回傳 Other
func Classify(err error) Code {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Other
	}
	switch pgErr.Code {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	}
	if strings.HasPrefix(pgErr.Code, integrityClass) {
		return IntegrityViolation
	}
	return Other
}

// IsIntegrity 回報錯誤是否屬於完整性限制違反 (class 23)
func IsIntegrity(err error) bool {
	return Classify(err) != Other
}

// Translate 將寫入時的資料庫錯誤轉成 *errs.Error：
// 唯一性衝突交給 onUnique 決定訊息（nil 則視為一般完整性錯誤），
// 其他 class 23 錯誤為 IntegrityError，其餘為 InternalError
func Translate(err error, onUnique func(error) *errs.Error) *errs.Error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	switch code := Classify(err); {
	case code == UniqueViolation && onUnique != nil:
		return onUnique(err)
	case code != Other:
		return errs.NewIntegrityError(err)
	}
	return errs.NewInternalError(err)
}
