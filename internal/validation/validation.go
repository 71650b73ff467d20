// Package validation 負責請求資料的格式檢查與日期解析
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medtrack/internal/errs"

	"github.com/go-playground/validator/v10"
)

const (
	// PreparationDateLayout 對應 YYYY-MM-DD HH:MM:SS
	PreparationDateLayout = "2006-01-02 15:04:05"
	// ExpirationDateLayout 對應 YYYY-MM-DD
	ExpirationDateLayout = "2006-01-02"
)

// ParsePreparationDate 解析調製日期，格式必須完全符合 PreparationDateLayout
func ParsePreparationDate(s string) (time.Time, error) {
	return parseExact(s, PreparationDateLayout)
}

// ParseExpirationDate 解析到期日，不接受時間部分
func ParseExpirationDate(s string) (time.Time, error) {
	return parseExact(s, ExpirationDateLayout)
}

// time.Parse 對時、分、秒接受單一位數，另外檢查長度確保每個欄位都是固定寬度
func parseExact(s, layout string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, errs.NewDateFormatError(err)
	}
	if len(s) != len(layout) {
		return time.Time{}, errs.NewDateFormatError(
			fmt.Errorf("time data %q does not match format %q", s, layout),
		)
	}
	return t, nil
}

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate calls the underlying validator and converts failures into a ValidationError
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errs.NewValidationError(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + ": field required"
	case "email":
		return field + ": value is not a valid email address"
	case "max":
		return fmt.Sprintf("%s: must not exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed on %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: failed on %s", field, fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
