// File: internal/router/router.go
package router

import (
	"time"

	"medtrack/internal/cache"
	"medtrack/internal/database"
	"medtrack/internal/handler"
	"medtrack/internal/handler/auth"
	"medtrack/internal/handler/medications"
	"medtrack/internal/handler/users"
	"medtrack/internal/worker"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Setup 註冊所有路由；cch 為 nil 時清單查詢不經快取
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, cacheTTL time.Duration, wp worker.Pool) {
	var lc *cache.MedicationList
	if cch != nil {
		lc = cache.NewMedicationList(cch, cacheTTL)
	}

	// 健康檢查
	e.GET("/ping", handler.PingHandler(db, cch))

	// 使用者註冊與登入
	e.POST("/users/", users.CreateUserHandler(db))
	e.POST("/login/", auth.LoginHandler(db))

	// 藥品
	e.POST("/medications/", medications.CreateMedicationHandler(db, lc))
	e.GET("/medications/", medications.ListMedicationsHandler(db, lc, wp))

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
