// tensu-crm/internal/routes/router.go

package routes

import (
	"tensu-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	// Публичные маршруты: вход в систему не требует токена.
	RegisterAuthRoutes(r)

	// Все остальные маршруты требуют валидный JWT.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
