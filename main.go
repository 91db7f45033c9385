// tensu-crm/main.go

package main

import (
	"log/slog"
	"os"

	"tensu-crm/config"
	"tensu-crm/internal/handlers"
	"tensu-crm/internal/routes"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config.ConnectDB()
	config.ConnectRedis()
	config.InitJWT()
	if err := config.InitGoogleServices(); err != nil {
		// Без Gemini работает все, кроме подсказок расписания.
		slog.Warn("Google services unavailable, AI schedule suggestions disabled", "error", err)
	}

	err := config.DB.AutoMigrate(
		&models.Club{},
		&models.Section{},
		&models.Group{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Student{},
		&models.ScheduleTemplate{},
		&models.Lesson{},
		&models.Attendance{},
	)
	if err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	// Хаб живых статусов работает в фоне все время жизни процесса.
	go handlers.GlobalStatusHub.Run()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
