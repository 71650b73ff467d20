// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"net/http"

	"medtrack/internal/api"
	"medtrack/internal/database"
	"medtrack/internal/errs"
	"medtrack/internal/handler"
	"medtrack/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var getUserByCredentials = store.GetUserByCredentials

// LoginHandler 以 Email/Password 驗證使用者
// @Summary     登入使用者
// @Description 比對 Email 與密碼；查無帳號與密碼錯誤回傳相同訊息
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /login/ [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.RespondError(c, err)
		}

		user, err := getUserByCredentials(c.Request().Context(), db, req.Email, *req.Password)
		if errors.Is(err, pgx.ErrNoRows) {
			return handler.RespondError(c, errs.NewInvalidCredentialsError())
		}
		if err != nil {
			return handler.RespondError(c, err)
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			Message: "Login successful",
			Email:   user.Email,
		})
	}
}
