package chat

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/models"
	"github.com/swibba/swibba-api/internal/utils"
)

// ChatService представляет сервис для работы с чатами
type ChatService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(cfg *config.Config) *ChatService {
	return &ChatService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetChats возвращает список чатов пользователя
func (s *ChatService) GetChats(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Запрос списка чатов с количеством непрочитанных сообщений
	query := `
        SELECT c.id, c.offer_id, c.sender_id, c.receiver_id, c.created_at, c.updated_at,
               COALESCE(c.last_message_text, ''), c.last_message_time, c.is_active,
               COUNT(m.id) FILTER (WHERE m.sender_id != $1 AND m.is_read = false) AS unread_count
        FROM chats c
        LEFT JOIN messages m ON c.id = m.chat_id
        WHERE c.sender_id = $1 OR c.receiver_id = $1
        GROUP BY c.id
        ORDER BY c.last_message_time DESC NULLS LAST, c.created_at DESC
    `

	rows, err := db.Pool.Query(ctx, query, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса чатов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения чатов"})
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		var offerID *uuid.UUID
		var lastMessageTime *time.Time
		var unreadCount int

		if err := rows.Scan(
			&chat.ID,
			&offerID,
			&chat.SenderID,
			&chat.ReceiverID,
			&chat.CreatedAt,
			&chat.UpdatedAt,
			&chat.LastMessageText,
			&lastMessageTime,
			&chat.IsActive,
			&unreadCount,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		chat.OfferID = offerID
		chat.LastMessageTime = lastMessageTime
		chat.UnreadCount = unreadCount

		// Получаем данные о другом участнике чата (не текущем пользователе)
		if chat.SenderID == userUUID {
			chat.Receiver = getUserInfo(ctx, chat.ReceiverID)
		} else {
			chat.Sender = getUserInfo(ctx, chat.SenderID)
		}

		// Если есть связанное предложение обмена, получаем информацию о нем
		if chat.OfferID != nil {
			chat.Offer = getOfferInfo(ctx, *chat.OfferID)
		}

		chats = append(chats, chat)
	}

	return c.JSON(fiber.Map{
		"chats": chats,
		"count": len(chats),
	})
}

// GetChatMessages возвращает сообщения конкретного чата
func (s *ChatService) GetChatMessages(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	chatID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	chatUUID, err := uuid.Parse(chatID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID чата"})
	}

	// Проверяем, имеет ли пользователь доступ к этому чату
	ctx, cancel := db.GetContext()
	defer cancel()

	var count int
	err = db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM chats
        WHERE id = $1 AND (sender_id = $2 OR receiver_id = $2)
    `, chatUUID, userUUID).Scan(&count)

	if err != nil {
		log.Printf("Ошибка проверки доступа к чату: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки доступа к чату"})
	}

	if count == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к этому чату"})
	}

	// Получаем сообщения
	limit := 50

	// Обрабатываем пагинацию
	before := c.Query("before")
	var query string
	var queryArgs []interface{}

	if before != "" {
		beforeUUID, err := uuid.Parse(before)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID сообщения"})
		}

		query = `
            SELECT m.id, m.chat_id, m.sender_id, m.text, m.is_read, m.created_at, m.updated_at
            FROM messages m
            WHERE m.chat_id = $1 AND m.created_at < (SELECT created_at FROM messages WHERE id = $2)
            ORDER BY m.created_at DESC
            LIMIT $3
        `
		queryArgs = []interface{}{chatUUID, beforeUUID, limit}
	} else {
		query = `
            SELECT m.id, m.chat_id, m.sender_id, m.text, m.is_read, m.created_at, m.updated_at
            FROM messages m
            WHERE m.chat_id = $1
            ORDER BY m.created_at DESC
            LIMIT $2
        `
		queryArgs = []interface{}{chatUUID, limit}
	}

	rows, err := db.Pool.Query(ctx, query, queryArgs...)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения сообщений"})
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.SenderID,
			&msg.Text,
			&msg.IsRead,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования сообщения: %v", err)
			continue
		}

		msg.Sender = getUserInfo(ctx, msg.SenderID)
		messages = append(messages, msg)
	}

	// Отмечаем сообщения как прочитанные
	_, err = db.Pool.Exec(ctx, `
        UPDATE messages
        SET is_read = true
        WHERE chat_id = $1 AND sender_id != $2 AND is_read = false
    `, chatUUID, userUUID)

	if err != nil {
		log.Printf("Ошибка обновления статуса прочтения: %v", err)
		// Не возвращаем ошибку, т.к. основная функциональность выполнена
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

// SendMessage отправляет новое сообщение
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	chatID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	chatUUID, err := uuid.Parse(chatID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID чата"})
	}

	var requestData struct {
		Text string `json:"text"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка чтения тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Текст сообщения не может быть пустым"})
	}

	// Проверяем доступ и активность чата
	ctx, cancel := db.GetContext()
	defer cancel()

	var chat models.Chat
	err = db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, is_active FROM chats
        WHERE id = $1 AND (sender_id = $2 OR receiver_id = $2)
    `, chatUUID, userUUID).Scan(&chat.ID, &chat.SenderID, &chat.ReceiverID, &chat.IsActive)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к этому чату"})
		}
		log.Printf("Ошибка проверки доступа к чату: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки доступа к чату"})
	}

	if !chat.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Чат неактивен"})
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	messageID := uuid.New()
	now := time.Now()

	if err := insertMessage(ctx, tx, messageID, chatUUID, userUUID, requestData.Text, now); err != nil {
		log.Printf("Ошибка создания сообщения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения сообщения"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	message := models.Message{
		ID:        messageID,
		ChatID:    chatUUID,
		SenderID:  userUUID,
		Text:      requestData.Text,
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
		Sender:    getUserInfo(ctx, userUUID),
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"success": true,
	})
}

// CreateChat создает новый чат между пользователями
func (s *ChatService) CreateChat(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		ReceiverID string `json:"receiver_id"`
		OfferID    string `json:"offer_id,omitempty"`
		Message    string `json:"message,omitempty"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка чтения тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ReceiverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID получателя не указан"})
	}

	senderUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID отправителя"})
	}

	receiverUUID, err := uuid.Parse(requestData.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID получателя"})
	}

	if senderUUID == receiverUUID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя создать чат с самим собой"})
	}

	// Проверяем, существует ли получатель
	ctx, cancel := db.GetContext()
	defer cancel()

	var count int
	err = db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE id = $1", receiverUUID).Scan(&count)
	if err != nil {
		log.Printf("Ошибка проверки существования получателя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки получателя"})
	}

	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Получатель не найден"})
	}

	// Проверяем, существует ли уже чат между этими пользователями
	var existingChatID *uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        SELECT id FROM chats
        WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
    `, senderUUID, receiverUUID).Scan(&existingChatID)

	if err != nil && err != pgx.ErrNoRows {
		log.Printf("Ошибка проверки существующего чата: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки существования чата"})
	}

	// Если чат существует, отправляем сообщение в него и возвращаем его ID
	if existingChatID != nil {
		if requestData.Message != "" {
			tx, err := db.Pool.Begin(ctx)
			if err != nil {
				log.Printf("Ошибка начала транзакции: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
			}
			defer tx.Rollback(ctx)

			if err := insertMessage(ctx, tx, uuid.New(), *existingChatID, senderUUID, requestData.Message, time.Now()); err != nil {
				log.Printf("Ошибка создания сообщения: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения сообщения"})
			}

			if err = tx.Commit(ctx); err != nil {
				log.Printf("Ошибка фиксации транзакции: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
			}
		}

		return c.JSON(fiber.Map{
			"chat_id": existingChatID,
			"is_new":  false,
			"success": true,
		})
	}

	// Преобразуем OfferID в UUID, если он указан
	var offerUUID *uuid.UUID
	if requestData.OfferID != "" {
		parsed, err := uuid.Parse(requestData.OfferID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
		}
		offerUUID = &parsed

		var offerExists bool
		err = db.Pool.QueryRow(ctx, `
            SELECT EXISTS(SELECT 1 FROM offers WHERE id = $1)
        `, offerUUID).Scan(&offerExists)

		if err != nil {
			log.Printf("Ошибка проверки существования предложения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки предложения обмена"})
		}

		if !offerExists {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Указанное предложение обмена не найдено"})
		}
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Создаем новый чат
	chatID := uuid.New()
	now := time.Now()

	_, err = tx.Exec(ctx, `
        INSERT INTO chats (id, offer_id, sender_id, receiver_id, created_at, updated_at, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, true)
    `, chatID, offerUUID, senderUUID, receiverUUID, now, now)

	if err != nil {
		log.Printf("Ошибка создания чата: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания чата"})
	}

	// Если указано начальное сообщение, создаем его
	if requestData.Message != "" {
		if err := insertMessage(ctx, tx, uuid.New(), chatID, senderUUID, requestData.Message, now); err != nil {
			log.Printf("Ошибка создания сообщения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения сообщения"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"chat_id": chatID,
		"is_new":  true,
		"success": true,
	})
}

// insertMessage вставляет сообщение и обновляет сводку чата в рамках транзакции
func insertMessage(ctx context.Context, tx pgx.Tx, messageID, chatID, senderID uuid.UUID, text string, now time.Time) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO messages (id, chat_id, sender_id, text, is_read, created_at, updated_at)
        VALUES ($1, $2, $3, $4, false, $5, $6)
    `, messageID, chatID, senderID, text, now, now)

	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        UPDATE chats
        SET last_message_text = $1, last_message_time = $2, updated_at = $3
        WHERE id = $4
    `, text, now, now, chatID)

	return err
}

// getUserInfo получает базовую информацию о пользователе
func getUserInfo(ctx context.Context, userID uuid.UUID) *models.User {
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
		log.Printf("Ошибка получения данных пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}

// getOfferInfo получает базовую информацию о предложении обмена
func getOfferInfo(ctx context.Context, offerID uuid.UUID) *models.Offer {
	var offer models.Offer
	err := db.Pool.QueryRow(ctx, `
        SELECT id, from_user_id, to_user_id, cash_adjustment, status_offer, created_at
        FROM offers
        WHERE id = $1
    `, offerID).Scan(
		&offer.ID,
		&offer.FromUserID,
		&offer.ToUserID,
		&offer.CashAdjustment,
		&offer.StatusOffer,
		&offer.CreatedAt,
	)

	if err != nil {
		log.Printf("Ошибка получения данных предложения %s: %v", offerID, err)
		return nil
	}

	return &offer
}
