package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	app.Post("/api/auth/register", s.RegisterHandler)
	app.Post("/api/auth/login", s.LoginHandler)

	// Защищенные маршруты
	protected := app.Group("/api")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	protected.Get("/profile", s.ProfileHandler)
	protected.Put("/profile", s.UpdateProfileHandler)
}
