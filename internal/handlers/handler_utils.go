// tensu-crm/internal/handlers/handler_utils.go
package handlers

import (
	"fmt"
	"log/slog"

	"tensu-crm/config"
)

// userCacheKey - ключ кэша авторизационных данных сотрудника в Redis.
// Формат должен совпадать с middleware.
func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:data", userID)
}

// dropUserCache сбрасывает кэшированные роли/права сотрудника после изменения.
func dropUserCache(userID uint) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(config.Ctx, userCacheKey(userID)).Err(); err != nil {
		slog.Warn("Failed to invalidate user cache", "user_id", userID, "error", err)
	}
}
