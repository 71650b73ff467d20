// Package errs 定義 API 對外的錯誤分類與 HTTP 狀態碼對應
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// 錯誤種類，搭配 errors.Is 判斷
var (
	ErrValidation         = errors.New("validation error")
	ErrDateFormat         = errors.New("date format error")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrIntegrity          = errors.New("integrity error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

// Error 帶有種類、HTTP 狀態碼與回傳給客戶端的 detail
type Error struct {
	Kind   error
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return e.Detail
}

// Unwrap 讓 errors.Is 同時比對種類與底層錯誤
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Kind == ErrDateFormat {
		errs = append(errs, ErrValidation)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewValidationError(detail string) *Error {
	return &Error{Kind: ErrValidation, Status: http.StatusBadRequest, Detail: detail}
}

// NewDateFormatError 包裝日期解析失敗，detail 保留原始解析訊息
func NewDateFormatError(err error) *Error {
	return &Error{
		Kind:   ErrDateFormat,
		Status: http.StatusBadRequest,
		Detail: fmt.Sprintf("Date format error: %v", err),
		Err:    err,
	}
}

func NewDuplicateEmailError(err error) *Error {
	return &Error{
		Kind:   ErrDuplicateEmail,
		Status: http.StatusBadRequest,
		Detail: "Email already registered",
		Err:    err,
	}
}

func NewIntegrityError(err error) *Error {
	return &Error{
		Kind:   ErrIntegrity,
		Status: http.StatusBadRequest,
		Detail: fmt.Sprintf("Integrity Error: %s", databaseMessage(err)),
		Err:    err,
	}
}

func NewInvalidCredentialsError() *Error {
	return &Error{
		Kind:   ErrInvalidCredentials,
		Status: http.StatusBadRequest,
		Detail: "Invalid email or password",
	}
}

func NewInternalError(err error) *Error {
	return &Error{
		Kind:   ErrInternal,
		Status: http.StatusInternalServerError,
		Detail: fmt.Sprintf("Unexpected Error: %v", err),
		Err:    err,
	}
}

// From 將任意錯誤轉成 *Error；已分類的錯誤原樣回傳，其餘一律視為 InternalError
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternalError(err)
}

// databaseMessage 取出資料庫回報的原始訊息，不帶外層包裝的前綴
func databaseMessage(err error) string {
	var m interface{ SQLState() string }
	if errors.As(err, &m) {
		if e, ok := m.(error); ok {
			return e.Error()
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
