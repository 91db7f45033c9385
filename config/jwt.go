// tensu-crm/config/jwt.go
package config

import (
	"log/slog"
	"os"
)

// JwtKey - секретный ключ для подписи токенов. Берется из окружения.
var JwtKey []byte

func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("Критическая ошибка: переменная окружения JWT_SECRET не установлена.")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
