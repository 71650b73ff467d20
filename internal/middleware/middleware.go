// Package middleware 組裝 Echo 的共用中介層與錯誤處理
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"medtrack/internal/api"
	"medtrack/internal/config"
	"medtrack/internal/errs"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Setup 依序掛上 recover、request id、logger 與 CORS
func Setup(e *echo.Echo, cfg *config.Config, log zerolog.Logger) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(ContextLogger(log))
	e.Use(RequestLogger())
	e.Use(CORS(cfg))
}

// CORS 允許設定中的來源、任意方法與標頭
func CORS(cfg *config.Config) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: cfg.CORSAllowCredentials,
	})
}

// ContextLogger 把帶有 request_id 的 logger 放進 request context，handler 以 zerolog.Ctx 取用
// 必須排在 RequestID 之後
func ContextLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return next(c)
		}
	}
}

// RequestLogger 每個請求結束時寫一筆 access log
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log := zerolog.Ctx(c.Request().Context())
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// ErrorHandler 讓未匹配路由、405 與未處理錯誤也回傳 {detail}
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		detail = fmt.Sprint(he.Message)
		if he.Internal != nil && status >= http.StatusInternalServerError {
			detail = errs.From(he.Internal).Detail
		}
	} else {
		e := errs.From(err)
		status, detail = e.Status, e.Detail
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, api.ErrorResponse{Detail: detail})
	}
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("write error response")
	}
}
