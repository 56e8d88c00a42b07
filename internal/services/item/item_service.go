package item

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/models"
	"github.com/swibba/swibba-api/internal/utils"
)

// RequestImage представляет структуру изображения в запросе создания товара
type RequestImage struct {
	URL                string          `json:"url"`
	PublicID           string          `json:"public_id"`
	FileName           string          `json:"file_name"`
	IsMain             bool            `json:"is_main"`
	CloudinaryResponse json.RawMessage `json:"cloudinary_response,omitempty"`
}

// ItemService представляет сервис для работы с товарами
type ItemService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewItemService создает новый экземпляр ItemService
func NewItemService(cfg *config.Config) *ItemService {
	return &ItemService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateItem обрабатывает создание нового товара
func (s *ItemService) CreateItem(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	// Преобразуем userID в UUID
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		Name              string         `json:"name"`
		Description       string         `json:"description"`
		Category          string         `json:"category"`
		SubCategory       string         `json:"sub_category"`
		Brand             string         `json:"brand"`
		Model             string         `json:"model"`
		Price             string         `json:"price"`
		Quantity          int            `json:"quantity"`
		StatusItem        string         `json:"status_item"`
		Status            string         `json:"status"`
		AllowedCategories []string       `json:"allowed_categories"`
		Latitude          *float64       `json:"latitude"`
		Longitude         *float64       `json:"longitude"`
		Images            []RequestImage `json:"images"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Валидация обязательных полей
	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	if requestData.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Выберите категорию"})
	}

	// Проверка, что хотя бы одно изображение добавлено для активных товаров
	if requestData.Status == "active" && len(requestData.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Добавьте хотя бы одно изображение"})
	}

	// Проверка валидности status
	if requestData.Status != "active" && requestData.Status != "draft" {
		requestData.Status = "draft" // По умолчанию - черновик
	}

	validConditions := map[string]bool{
		"new": true, "excellent": true, "good": true,
		"used": true, "needs_repair": true, "damaged": true,
	}

	if !validConditions[requestData.StatusItem] {
		requestData.StatusItem = "new" // По умолчанию - новое
	}

	// Разбираем цену
	price, err := decimal.NewFromString(requestData.Price)
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат цены"})
	}

	if requestData.Quantity <= 0 {
		requestData.Quantity = 1
	}

	// Сериализуем разрешенные категории для JSONB
	if requestData.AllowedCategories == nil {
		requestData.AllowedCategories = []string{}
	}
	allowedCategories, err := json.Marshal(requestData.AllowedCategories)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат разрешенных категорий"})
	}

	// Создаем ID для нового товара
	itemID := uuid.New()

	// Начинаем транзакцию
	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Вставляем товар
	_, err = tx.Exec(ctx, `
		INSERT INTO items (id, user_id, name, description, category, sub_category, brand, model,
		                   price, quantity, status_item, status_swap, status, allowed_categories, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'available', $12, $13, $14, $15)
	`, itemID, userUUID, requestData.Name, requestData.Description, requestData.Category,
		requestData.SubCategory, requestData.Brand, requestData.Model, price, requestData.Quantity,
		requestData.StatusItem, requestData.Status, allowedCategories, requestData.Latitude, requestData.Longitude)

	if err != nil {
		log.Printf("Ошибка вставки товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения товара"})
	}

	// Вставляем изображения, если они есть
	for i, img := range requestData.Images {
		isMain := i == 0 // Первое изображение - основное

		var cloudinaryResp models.CloudinaryResponse
		var metadata []byte
		var previewURL string

		// Обрабатываем данные из Cloudinary
		if len(img.CloudinaryResponse) > 0 {
			if err := json.Unmarshal(img.CloudinaryResponse, &cloudinaryResp); err != nil {
				log.Printf("Ошибка парсинга ответа Cloudinary: %v", err)
			} else {
				previewURL = models.ExtractPreviewURL(cloudinaryResp)

				metadataObj := models.ExtractMetadata(cloudinaryResp)
				metadata, _ = json.Marshal(metadataObj)
			}
		}

		// Вставляем информацию об изображении
		_, err = tx.Exec(ctx, `
			INSERT INTO item_images (item_id, url, preview_url, public_id, file_name, is_main, position, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, itemID, img.URL, previewURL, img.PublicID, img.FileName, isMain, i, metadata)

		if err != nil {
			log.Printf("Ошибка вставки изображения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения изображений"})
		}
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"item_id": itemID,
		"message": "Товар успешно создан",
	})
}

// GetMyItems возвращает список товаров текущего пользователя
func (s *ItemService) GetMyItems(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Параметры фильтрации и пагинации
	statusSwap := c.Query("status_swap", "all") // all, available, unavailable
	limit := 20
	offsetStr := c.Query("offset", "0")
	offset, _ := strconv.Atoi(offsetStr)

	ctx, cancel := db.GetContext()
	defer cancel()

	var rows pgx.Rows
	var queryErr error

	if statusSwap == "all" {
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, user_id, name, description, category, sub_category, brand, model,
			       price, quantity, status_item, status_swap, allowed_categories, latitude, longitude,
			       created_at, updated_at
			FROM items
			WHERE user_id = $1
			ORDER BY updated_at DESC
			LIMIT $2 OFFSET $3
		`, userUUID, limit, offset)
	} else {
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, user_id, name, description, category, sub_category, brand, model,
			       price, quantity, status_item, status_swap, allowed_categories, latitude, longitude,
			       created_at, updated_at
			FROM items
			WHERE user_id = $1 AND status_swap = $2
			ORDER BY updated_at DESC
			LIMIT $3 OFFSET $4
		`, userUUID, statusSwap, limit, offset)
	}

	if queryErr != nil {
		log.Printf("Ошибка запроса товаров: %v", queryErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	items := s.collectItems(ctx, rows)

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// GetPublicItems возвращает доступные для обмена товары других пользователей
func (s *ItemService) GetPublicItems(c fiber.Ctx) error {
	category := c.Query("category", "")
	limit := 20
	offsetStr := c.Query("offset", "0")
	offset, _ := strconv.Atoi(offsetStr)

	ctx, cancel := db.GetContext()
	defer cancel()

	var rows pgx.Rows
	var queryErr error

	if category == "" {
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, user_id, name, description, category, sub_category, brand, model,
			       price, quantity, status_item, status_swap, allowed_categories, latitude, longitude,
			       created_at, updated_at
			FROM items
			WHERE status = 'active' AND status_swap = 'available'
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, user_id, name, description, category, sub_category, brand, model,
			       price, quantity, status_item, status_swap, allowed_categories, latitude, longitude,
			       created_at, updated_at
			FROM items
			WHERE status = 'active' AND status_swap = 'available' AND category = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, category, limit, offset)
	}

	if queryErr != nil {
		log.Printf("Ошибка запроса товаров: %v", queryErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	items := s.collectItems(ctx, rows)

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// GetUserItems возвращает доступные товары конкретного пользователя
func (s *ItemService) GetUserItems(c fiber.Ctx) error {
	ownerID := c.Params("id")

	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, description, category, sub_category, brand, model,
		       price, quantity, status_item, status_swap, allowed_categories, latitude, longitude,
		       created_at, updated_at
		FROM items
		WHERE user_id = $1 AND status = 'active' AND status_swap = 'available'
		ORDER BY created_at DESC
	`, ownerUUID)

	if err != nil {
		log.Printf("Ошибка запроса товаров пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	items := s.collectItems(ctx, rows)

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// GetItem возвращает один товар по ID
func (s *ItemService) GetItem(c fiber.Ctx) error {
	itemID := c.Params("id")

	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	item, err := GetItemByID(ctx, itemUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
	}

	item.Images = loadItemImages(ctx, item.ID)
	item.Owner = getOwnerInfo(ctx, item.UserID)

	return c.JSON(fiber.Map{"item": item})
}

// UpdateItem обновляет товар текущего пользователя
func (s *ItemService) UpdateItem(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	itemID := c.Params("id")

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	var requestData struct {
		Name              string   `json:"name"`
		Description       string   `json:"description"`
		Category          string   `json:"category"`
		SubCategory       string   `json:"sub_category"`
		Brand             string   `json:"brand"`
		Model             string   `json:"model"`
		Price             string   `json:"price"`
		Quantity          int      `json:"quantity"`
		StatusItem        string   `json:"status_item"`
		AllowedCategories []string `json:"allowed_categories"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	price, err := decimal.NewFromString(requestData.Price)
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат цены"})
	}

	if requestData.AllowedCategories == nil {
		requestData.AllowedCategories = []string{}
	}
	allowedCategories, err := json.Marshal(requestData.AllowedCategories)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат разрешенных категорий"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что товар принадлежит пользователю
	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id FROM items WHERE id = $1
	`, itemUUID).Scan(&ownerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете редактировать чужой товар"})
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE items
		SET name = $1, description = $2, category = $3, sub_category = $4, brand = $5, model = $6,
		    price = $7, quantity = $8, status_item = $9, allowed_categories = $10, updated_at = NOW()
		WHERE id = $11
	`, requestData.Name, requestData.Description, requestData.Category, requestData.SubCategory,
		requestData.Brand, requestData.Model, price, requestData.Quantity, requestData.StatusItem,
		allowedCategories, itemUUID)

	if err != nil {
		log.Printf("Ошибка обновления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления товара"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно обновлен",
	})
}

// DeleteItem удаляет товар текущего пользователя
func (s *ItemService) DeleteItem(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	itemID := c.Params("id")

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем владельца и текущий статус товара
	var ownerID uuid.UUID
	var statusSwap string
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id, status_swap FROM items WHERE id = $1
	`, itemUUID).Scan(&ownerID, &statusSwap)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете удалить чужой товар"})
	}

	// Товар в активном предложении удалять нельзя
	if statusSwap == models.SwapStatusUnavailable {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар участвует в активном предложении обмена"})
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Удаляем изображения и связанные записи избранного, затем сам товар
	_, err = tx.Exec(ctx, `DELETE FROM item_images WHERE item_id = $1`, itemUUID)
	if err != nil {
		log.Printf("Ошибка удаления изображений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления товара"})
	}

	_, err = tx.Exec(ctx, `DELETE FROM favorites WHERE item_id = $1`, itemUUID)
	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления товара"})
	}

	_, err = tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemUUID)
	if err != nil {
		log.Printf("Ошибка удаления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления товара"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален",
	})
}

// collectItems сканирует строки товаров и подгружает их изображения
func (s *ItemService) collectItems(ctx context.Context, rows pgx.Rows) []models.Item {
	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		item.Images = loadItemImages(ctx, item.ID)
		items = append(items, item)
	}

	return items
}

// scanItem сканирует одну строку товара
func scanItem(row pgx.Row) (models.Item, error) {
	var item models.Item
	var allowedCategories []byte

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.SubCategory,
		&item.Brand,
		&item.Model,
		&item.Price,
		&item.Quantity,
		&item.StatusItem,
		&item.StatusSwap,
		&allowedCategories,
		&item.Latitude,
		&item.Longitude,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return item, err
	}

	// Преобразуем JSONB в массив строк
	if err := json.Unmarshal(allowedCategories, &item.AllowedCategories); err != nil {
		item.AllowedCategories = []string{}
	}

	return item, nil
}

// GetItemByID возвращает товар без изображений
func GetItemByID(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, category, sub_category, brand, model,
		       price, quantity, status_item, status_swap, allowed_categories, latitude, longitude,
		       created_at, updated_at
		FROM items
		WHERE id = $1
	`, itemID)

	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// loadItemImages получает изображения товара
func loadItemImages(ctx context.Context, itemID uuid.UUID) []models.ItemImage {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, url, preview_url, is_main, position
		FROM item_images
		WHERE item_id = $1
		ORDER BY position ASC
	`, itemID)

	if err != nil {
		log.Printf("Ошибка получения изображений: %v", err)
		return nil
	}
	defer rows.Close()

	var images []models.ItemImage
	for rows.Next() {
		var image models.ItemImage
		if err := rows.Scan(&image.ID, &image.URL, &image.PreviewURL, &image.IsMain, &image.Position); err != nil {
			log.Printf("Ошибка сканирования изображения: %v", err)
			continue
		}
		image.ItemID = itemID
		images = append(images, image)
	}

	return images
}

// getOwnerInfo получает информацию о владельце товара
func getOwnerInfo(ctx context.Context, userID uuid.UUID) *models.User {
	var user models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, COALESCE(avatar_url, ''), verified,
		       COALESCE(country, ''), COALESCE(city, '')
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.AvatarURL,
		&user.Verified,
		&user.Country,
		&user.City,
	)

	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}
