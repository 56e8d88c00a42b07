package item

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swibba/swibba-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API товаров
func (s *ItemService) SetupRoutes(app *fiber.App) {
	// Группа для API товаров
	api := app.Group("/api/items")

	// Публичные маршруты
	api.Get("/", s.GetPublicItems)
	api.Get("/user/:id", s.GetUserItems)

	// Защищенные маршруты (требуют авторизации)
	protected := app.Group("/api/items")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания товара
	protected.Post("/create", s.CreateItem)

	// Маршрут для получения списка своих товаров
	protected.Get("/my", s.GetMyItems)

	// Маршрут для получения одного товара по ID
	protected.Get("/:id", s.GetItem)

	// Маршрут для обновления товара
	protected.Put("/:id", s.UpdateItem)

	// Маршрут для удаления товара
	protected.Delete("/:id", s.DeleteItem)
}
