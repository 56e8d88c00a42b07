package offer

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API предложений обмена
func (s *OfferService) SetupRoutes(app *fiber.App) {
	// Группа для API предложений обмена
	api := app.Group("/api/offers")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания предложения обмена
	api.Post("/", s.CreateOffer)

	// Маршрут для получения списка предложений обмена
	api.Get("/", s.GetMyOffers)

	// Маршрут для обновления статуса предложения обмена
	api.Put("/:id/status", s.UpdateOfferStatus)
}
