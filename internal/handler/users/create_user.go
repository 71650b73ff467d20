package users

import (
	"net/http"

	"medtrack/internal/api"
	"medtrack/internal/database"
	"medtrack/internal/errs"
	"medtrack/internal/handler"
	"medtrack/internal/model"
	"medtrack/internal/sqlerr"
	"medtrack/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	withTx     = database.WithTx
	createUser = store.CreateUser
)

// @Summary     Register a new user
// @Description 建立新帳號；Email 重複時回傳 400。密碼目前以明文保存
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "帳號資料"
// @Success     200  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users/ [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.RespondError(c, err)
		}

		var user *model.User
		err := withTx(c.Request().Context(), db, func(q database.Querier) error {
			var err error
			user, err = createUser(c.Request().Context(), q, &model.User{
				Email:    req.Email,
				Password: *req.Password,
			})
			return err
		})
		if err != nil {
			return handler.RespondError(c, sqlerr.Translate(err, errs.NewDuplicateEmailError))
		}

		return c.JSON(http.StatusOK, api.UserResponse{Email: user.Email})
	}
}
