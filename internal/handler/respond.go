package handler

import (
	"fmt"
	"net/http"

	"medtrack/internal/api"
	"medtrack/internal/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RespondError 將錯誤轉為 {detail} 回應；5xx 額外寫入 log
func RespondError(c echo.Context, err error) error {
	e := errs.From(err)
	if e.Status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.JSON(e.Status, api.ErrorResponse{Detail: e.Detail})
}

// BindAndValidate 先 Bind 再以 go-playground/validator 驗證結構化參數
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValidationError(fmt.Sprintf("invalid request body: %s", bindMessage(err)))
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func bindMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
