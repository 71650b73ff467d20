package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medtrack/internal/errs"
	"medtrack/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	require.NoError(t, RespondError(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), errs.NewInvalidCredentialsError()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"detail":"Invalid email or password"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, RespondError(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), errors.New("boom")))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"detail":"Unexpected Error: boom"}`, rec.Body.String())
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = validation.NewValidator()
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	newCtx := func(body string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return e.NewContext(req, httptest.NewRecorder())
	}

	var p payload
	require.NoError(t, BindAndValidate(newCtx(`{"email":"a@b.com"}`), &p))
	require.Equal(t, "a@b.com", p.Email)

	err := BindAndValidate(newCtx(`{"email":`), &payload{})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Contains(t, err.Error(), "invalid request body")

	err = BindAndValidate(newCtx(`{"email":"nope"}`), &payload{})
	require.ErrorIs(t, err, errs.ErrValidation)
}
