package favorite

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/models"
	"github.com/swibba/swibba-api/internal/services/item"
	"github.com/swibba/swibba-api/internal/utils"
)

// FavoriteService представляет сервис для работы с избранными товарами
type FavoriteService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config) *FavoriteService {
	return &FavoriteService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// AddToFavorites добавляет товар в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем ID товара из запроса
	var requestData struct {
		ItemID string `json:"item_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	itemUUID, err := uuid.Parse(requestData.ItemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, существует ли товар и не принадлежит ли он пользователю
	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `SELECT user_id FROM items WHERE id = $1`, itemUUID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка проверки товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if ownerID == userUUID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя добавить в избранное собственный товар"})
	}

	// Проверяем, нет ли товара уже в избранном
	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)
	`, userUUID, itemUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар уже в избранном"})
	}

	favoriteID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO favorites (id, user_id, item_id) VALUES ($1, $2, $3)
	`, favoriteID, userUUID, itemUUID)

	if err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"favorite_id": favoriteID,
		"message":     "Товар добавлен в избранное",
	})
}

// RemoveFromFavorites удаляет товар из избранного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	itemID := c.Params("item_id")

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

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND item_id = $2
	`, userUUID, itemUUID)

	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из избранного"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден в избранном"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар удален из избранного",
	})
}

// GetFavorites возвращает список избранных товаров пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	limit := 20
	offsetStr := c.Query("offset", "0")
	offset, _ := strconv.Atoi(offsetStr)

	ctx, cancel := db.GetContext()
	defer cancel()

	var total int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM favorites WHERE user_id = $1
	`, userUUID).Scan(&total)

	if err != nil {
		log.Printf("Ошибка подсчета избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранного"})
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, item_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userUUID, limit, offset)

	if err != nil {
		log.Printf("Ошибка запроса избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранного"})
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var favorite models.Favorite
		if err := rows.Scan(&favorite.ID, &favorite.UserID, &favorite.ItemID, &favorite.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		// Загружаем информацию о товаре
		if it, err := item.GetItemByID(ctx, favorite.ItemID); err == nil {
			favorite.Item = it
		}

		favorites = append(favorites, favorite)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}
