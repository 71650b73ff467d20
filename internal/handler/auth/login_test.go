package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medtrack/internal/database"
	"medtrack/internal/model"
	"medtrack/internal/store"
	"medtrack/internal/validation"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newLoginCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restore() {
	getUserByCredentials = store.GetUserByCredentials
}

// 模擬 users 資料表：email 與密碼必須完全相同
func fakeLookup(users ...model.User) func(context.Context, database.Querier, string, string) (*model.User, error) {
	return func(_ context.Context, _ database.Querier, email, password string) (*model.User, error) {
		for _, u := range users {
			if u.Email == email && u.Password == password {
				u := u
				return &u, nil
			}
		}
		return nil, pgx.ErrNoRows
	}
}

func TestLoginHandler(t *testing.T) {
	e := echo.New()
	e.Validator = validation.NewValidator()
	alice := model.User{ID: 1, Email: "alice@example.com", Password: "Secret"}

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newLoginCtx(e, `{`)
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newLoginCtx(e, `{"email":"alice","password":"Secret"}`)
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "email")
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByCredentials = fakeLookup(alice)
		ctx, rec := newLoginCtx(e, `{"email":"alice@example.com","password":"Secret"}`)
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"message":"Login successful","email":"alice@example.com"}`, rec.Body.String())
	})

	// 錯誤密碼、未知帳號、大小寫不同都回傳同一訊息
	for name, body := range map[string]string{
		"wrong password": `{"email":"alice@example.com","password":"secret"}`,
		"unknown email":  `{"email":"bob@example.com","password":"Secret"}`,
		"email case":     `{"email":"Alice@example.com","password":"Secret"}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(restore)
			getUserByCredentials = fakeLookup(alice)
			ctx, rec := newLoginCtx(e, body)
			require.NoError(t, LoginHandler(nil)(ctx))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.JSONEq(t, `{"detail":"Invalid email or password"}`, rec.Body.String())
		})
	}

	t.Run("empty password is compared as given", func(t *testing.T) {
		t.Cleanup(restore)
		var gotPassword *string
		getUserByCredentials = func(_ context.Context, _ database.Querier, _, password string) (*model.User, error) {
			gotPassword = &password
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newLoginCtx(e, `{"email":"alice@example.com","password":""}`)
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"detail":"Invalid email or password"}`, rec.Body.String())
		require.NotNil(t, gotPassword)
		require.Equal(t, "", *gotPassword)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByCredentials = func(context.Context, database.Querier, string, string) (*model.User, error) {
			return nil, errors.New("timeout")
		}
		ctx, rec := newLoginCtx(e, `{"email":"alice@example.com","password":"Secret"}`)
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
