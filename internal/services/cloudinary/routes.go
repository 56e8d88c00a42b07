package cloudinary

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	// Группа для API загрузки
	api := app.Group("/api/cloudinary")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения параметров загрузки
	api.Get("/upload-params", s.GenerateUploadParams)
}
