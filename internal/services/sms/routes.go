package sms

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API подтверждения телефона
func (s *SMSService) SetupRoutes(app *fiber.App) {
	// Группа для API SMS-подтверждения
	api := app.Group("/api/sms")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для отправки кода подтверждения
	api.Post("/send-code", s.SendCodeHandler)

	// Маршрут для проверки кода подтверждения
	api.Post("/verify-code", s.VerifyCodeHandler)
}
