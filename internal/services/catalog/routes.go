package catalog

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API справочников каталога
func (s *CatalogService) SetupRoutes(app *fiber.App) {
	// Группа для API каталога (публичные маршруты)
	api := app.Group("/api/catalog")

	// Маршрут для получения категорий
	api.Get("/categories", s.GetCategories)

	// Маршрут для получения подкатегорий категории
	api.Get("/categories/:id/subcategories", s.GetSubCategories)

	// Маршрут для получения брендов
	api.Get("/brands", s.GetBrands)

	// Маршрут для получения моделей бренда
	api.Get("/brands/:id/models", s.GetBrandModels)

	// Маршрут для получения подсказок
	api.Get("/hints", s.GetHints)
}
