package catalog

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/models"
)

// CatalogService предоставляет API справочников каталога
type CatalogService struct {
	cfg *config.Config
}

// NewCatalogService создает новый экземпляр CatalogService
func NewCatalogService(cfg *config.Config) *CatalogService {
	return &CatalogService{
		cfg: cfg,
	}
}

// GetCategories возвращает список категорий верхнего уровня
func (s *CatalogService) GetCategories(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, slug, COALESCE(icon_url, ''), position
		FROM categories
		ORDER BY position, name
	`)
	if err != nil {
		log.Printf("Ошибка при получении категорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при получении категорий",
		})
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.IconURL, &category.Position); err != nil {
			log.Printf("Ошибка при сканировании категории: %v", err)
			continue
		}
		categories = append(categories, category)
	}

	return c.JSON(fiber.Map{
		"categories": categories,
	})
}

// GetSubCategories возвращает подкатегории указанной категории
func (s *CatalogService) GetSubCategories(c fiber.Ctx) error {
	categoryID := c.Params("id")
	if _, err := uuid.Parse(categoryID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат ID категории",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, category_id, name, slug, position
		FROM subcategories
		WHERE category_id = $1
		ORDER BY position, name
	`, categoryID)
	if err != nil {
		log.Printf("Ошибка при получении подкатегорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при получении подкатегорий",
		})
	}
	defer rows.Close()

	subcategories := []models.SubCategory{}
	for rows.Next() {
		var sub models.SubCategory
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.Slug, &sub.Position); err != nil {
			log.Printf("Ошибка при сканировании подкатегории: %v", err)
			continue
		}
		subcategories = append(subcategories, sub)
	}

	return c.JSON(fiber.Map{
		"subcategories": subcategories,
	})
}

// GetBrands возвращает список брендов
func (s *CatalogService) GetBrands(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name
		FROM brands
		ORDER BY name
	`)
	if err != nil {
		log.Printf("Ошибка при получении брендов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при получении брендов",
		})
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		var brand models.Brand
		if err := rows.Scan(&brand.ID, &brand.Name); err != nil {
			log.Printf("Ошибка при сканировании бренда: %v", err)
			continue
		}
		brands = append(brands, brand)
	}

	return c.JSON(fiber.Map{
		"brands": brands,
	})
}

// GetBrandModels возвращает модели указанного бренда
func (s *CatalogService) GetBrandModels(c fiber.Ctx) error {
	brandID := c.Params("id")
	if _, err := uuid.Parse(brandID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат ID бренда",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, brand_id, name
		FROM brand_models
		WHERE brand_id = $1
		ORDER BY name
	`, brandID)
	if err != nil {
		log.Printf("Ошибка при получении моделей бренда: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при получении моделей бренда",
		})
	}
	defer rows.Close()

	brandModels := []models.BrandModel{}
	for rows.Next() {
		var model models.BrandModel
		if err := rows.Scan(&model.ID, &model.BrandID, &model.Name); err != nil {
			log.Printf("Ошибка при сканировании модели бренда: %v", err)
			continue
		}
		brandModels = append(brandModels, model)
	}

	return c.JSON(fiber.Map{
		"models": brandModels,
	})
}

// GetHints возвращает подсказки для формы добавления товара
func (s *CatalogService) GetHints(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, field, text, position
		FROM hints
		ORDER BY position
	`)
	if err != nil {
		log.Printf("Ошибка при получении подсказок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при получении подсказок",
		})
	}
	defer rows.Close()

	hints := []models.Hint{}
	for rows.Next() {
		var hint models.Hint
		if err := rows.Scan(&hint.ID, &hint.Field, &hint.Text, &hint.Position); err != nil {
			log.Printf("Ошибка при сканировании подсказки: %v", err)
			continue
		}
		hints = append(hints, hint)
	}

	return c.JSON(fiber.Map{
		"hints": hints,
	})
}
