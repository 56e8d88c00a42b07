package priceai

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API оценки стоимости
func (s *PriceAIService) SetupRoutes(app *fiber.App) {
	// Группа для API оценки стоимости
	api := app.Group("/api/price")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения оценки стоимости товара
	api.Post("/estimate", s.EstimateHandler)
}
