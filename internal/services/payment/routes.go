package payment

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API платежей
func (s *PaymentService) SetupRoutes(app *fiber.App) {
	// Группа для API платежей
	api := app.Group("/api/payments")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для пополнения баланса
	api.Post("/deposit", s.Deposit)

	// Маршрут для вывода средств
	api.Post("/withdraw", s.Withdraw)

	// Маршрут для получения баланса и истории операций
	api.Get("/balance", s.GetBalance)
}
