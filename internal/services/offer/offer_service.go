package offer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/models"
	"github.com/swibba/swibba-api/internal/utils"
)

// OfferService представляет сервис для работы с предложениями обмена
type OfferService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewOfferService создает новый экземпляр OfferService
func NewOfferService(cfg *config.Config) *OfferService {
	return &OfferService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// requestOfferItem представляет один товар в запросе создания предложения
type requestOfferItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// lockedItem представляет товар, заблокированный внутри транзакции создания предложения
type lockedItem struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Price             decimal.Decimal
	Quantity          int
	StatusSwap        string
	Status            string
	AllowedCategories []string
}

// CreateOffer создает новое предложение обмена.
// Все шаги (предложение, его товары, смена доступности, сообщение чата)
// выполняются в одной транзакции.
func (s *OfferService) CreateOffer(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	senderID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		ToUserID       string             `json:"to_user_id"`
		CashAdjustment string             `json:"cash_adjustment"`
		MyItems        []requestOfferItem `json:"my_items"`
		TheirItems     []requestOfferItem `json:"their_items"`
		Message        string             `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Проверка обязательных полей
	if requestData.ToUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать получателя предложения"})
	}

	if len(requestData.MyItems) == 0 || len(requestData.TheirItems) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо выбрать товары с обеих сторон обмена"})
	}

	receiverID, err := uuid.Parse(requestData.ToUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID получателя"})
	}

	// Проверяем, что пользователь не предлагает обмен самому себе
	if receiverID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не можете предложить обмен самому себе"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Начинаем транзакцию
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Блокируем и проверяем товары обеих сторон
	myItems, errMsg := lockAndCheckItems(ctx, tx, requestData.MyItems, senderID)
	if errMsg != "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": errMsg})
	}

	theirItems, errMsg := lockAndCheckItems(ctx, tx, requestData.TheirItems, receiverID)
	if errMsg != "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": errMsg})
	}

	// Проверяем совместимость категорий на стороне сервера
	combined := CombinedAllowedCategories(toSelectedItems(myItems))
	for _, item := range theirItems {
		if !IsCompatible(item.AllowedCategories, combined) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Товар получателя не подходит под разрешенные категории выбранных товаров",
			})
		}
	}

	// Пересчитываем доплату по ценам из базы
	cashAdjustment := ComputeCashAdjustment(toSelectedItems(myItems), toSelectedItems(theirItems))

	// Если клиент прислал свое значение, оно обязано совпасть
	if requestData.CashAdjustment != "" {
		clientValue, err := decimal.NewFromString(requestData.CashAdjustment)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат доплаты"})
		}
		if !clientValue.Equal(cashAdjustment) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма доплаты не совпадает с расчетной"})
		}
	}

	// Создаем ID для нового предложения обмена
	offerID := uuid.New()

	// Вставляем предложение обмена
	_, err = tx.Exec(ctx, `
		INSERT INTO offers (id, from_user_id, to_user_id, cash_adjustment, status_offer, message)
		VALUES ($1, $2, $3, $4, 'pending', $5)
	`, offerID, senderID, receiverID, cashAdjustment, requestData.Message)

	if err != nil {
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения обмена"})
	}

	// Вставляем товары предложения и помечаем их недоступными
	allItems := append(append([]lockedItem{}, myItems...), theirItems...)
	for _, item := range allItems {
		_, err = tx.Exec(ctx, `
			INSERT INTO offer_items (id, offer_id, item_id, offered_by, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), offerID, item.ID, item.OwnerID, item.Quantity)

		if err != nil {
			log.Printf("Ошибка создания товара предложения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения товаров предложения"})
		}

		_, err = tx.Exec(ctx, `
			UPDATE items SET status_swap = 'unavailable', updated_at = NOW() WHERE id = $1
		`, item.ID)

		if err != nil {
			log.Printf("Ошибка обновления статуса товара: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса товара"})
		}
	}

	// Если указано сообщение, создаем чат с первым сообщением
	if requestData.Message != "" {
		now := time.Now()
		chatID := uuid.New()

		_, err = tx.Exec(ctx, `
			INSERT INTO chats (id, offer_id, sender_id, receiver_id, created_at, updated_at, last_message_text, last_message_time, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		`, chatID, offerID, senderID, receiverID, now, now, requestData.Message, now)

		if err != nil {
			log.Printf("Ошибка создания чата: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания чата"})
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO messages (id, chat_id, sender_id, text, is_read, created_at, updated_at)
			VALUES ($1, $2, $3, $4, false, $5, $6)
		`, uuid.New(), chatID, senderID, requestData.Message, now, now)

		if err != nil {
			log.Printf("Ошибка создания сообщения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения сообщения"})
		}
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"offer_id":        offerID,
		"cash_adjustment": cashAdjustment,
		"message":         "Предложение обмена успешно создано",
	})
}

// GetMyOffers возвращает список входящих и исходящих предложений обмена
func (s *OfferService) GetMyOffers(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Получаем тип предложений (входящие/исходящие/все)
	offerType := c.Query("type", "all") // all, incoming, outgoing
	status := c.Query("status", "all")  // all, pending, accepted, rejected, canceled, completed

	ctx, cancel := db.GetContext()
	defer cancel()

	// Формируем запрос в зависимости от типа и статуса
	baseQuery := `
		SELECT o.id, o.from_user_id, o.to_user_id, o.cash_adjustment, o.status_offer, o.message,
		       o.created_at, o.updated_at
		FROM offers o
	`

	var query string
	var args []interface{}

	switch offerType {
	case "incoming":
		if status == "all" {
			query = baseQuery + ` WHERE o.to_user_id = $1 ORDER BY o.created_at DESC`
			args = []interface{}{userUUID}
		} else {
			query = baseQuery + ` WHERE o.to_user_id = $1 AND o.status_offer = $2 ORDER BY o.created_at DESC`
			args = []interface{}{userUUID, status}
		}
	case "outgoing":
		if status == "all" {
			query = baseQuery + ` WHERE o.from_user_id = $1 ORDER BY o.created_at DESC`
			args = []interface{}{userUUID}
		} else {
			query = baseQuery + ` WHERE o.from_user_id = $1 AND o.status_offer = $2 ORDER BY o.created_at DESC`
			args = []interface{}{userUUID, status}
		}
	default:
		if status == "all" {
			query = baseQuery + ` WHERE o.from_user_id = $1 OR o.to_user_id = $1 ORDER BY o.created_at DESC`
			args = []interface{}{userUUID}
		} else {
			query = baseQuery + ` WHERE (o.from_user_id = $1 OR o.to_user_id = $1) AND o.status_offer = $2 ORDER BY o.created_at DESC`
			args = []interface{}{userUUID, status}
		}
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var offer models.Offer
		if err := rows.Scan(
			&offer.ID,
			&offer.FromUserID,
			&offer.ToUserID,
			&offer.CashAdjustment,
			&offer.StatusOffer,
			&offer.Message,
			&offer.CreatedAt,
			&offer.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		// Загружаем товары предложения и информацию об участниках
		offer.Items = loadOfferItems(ctx, offer.ID)
		offer.FromUser = getUserInfo(ctx, offer.FromUserID)
		offer.ToUser = getUserInfo(ctx, offer.ToUserID)

		// Получаем ID чата, связанного с этим предложением (если есть)
		var chatID *uuid.UUID
		err = db.Pool.QueryRow(ctx, `
			SELECT id FROM chats WHERE offer_id = $1 LIMIT 1
		`, offer.ID).Scan(&chatID)

		if err == nil && chatID != nil {
			offer.ChatID = *chatID
		}

		offers = append(offers, offer)
	}

	return c.JSON(fiber.Map{
		"offers": offers,
		"count":  len(offers),
	})
}

// UpdateOfferStatus обновляет статус предложения обмена.
// Каждый переход выполняется одной транзакцией вместе со своими побочными эффектами.
func (s *OfferService) UpdateOfferStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	offerID := c.Params("id")
	if offerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID предложения обмена не указан"})
	}

	var requestData struct {
		Status string `json:"status"` // accepted, rejected, canceled, completed
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	newStatus := requestData.Status
	if newStatus != models.OfferStatusAccepted && newStatus != models.OfferStatusRejected &&
		newStatus != models.OfferStatusCanceled && newStatus != models.OfferStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
	}

	offerUUID, err := uuid.Parse(offerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Блокируем предложение на время перехода
	var offer models.Offer
	err = tx.QueryRow(ctx, `
		SELECT id, from_user_id, to_user_id, status_offer
		FROM offers
		WHERE id = $1
		FOR UPDATE
	`, offerUUID).Scan(&offer.ID, &offer.FromUserID, &offer.ToUserID, &offer.StatusOffer)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	isReceiver := offer.ToUserID == userUUID
	isSender := offer.FromUserID == userUUID

	if !isReceiver && !isSender {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не являетесь участником этого предложения"})
	}

	// Проверяем право на переход и его допустимость из текущего статуса
	switch newStatus {
	case models.OfferStatusAccepted, models.OfferStatusRejected:
		// Только получатель может принять или отклонить предложение
		if !isReceiver {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только получатель предложения может его принять или отклонить"})
		}
		if offer.StatusOffer != models.OfferStatusPending {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя изменить статус предложения, которое уже не находится в ожидании"})
		}
	case models.OfferStatusCanceled:
		// Только отправитель может отменить предложение
		if !isSender {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только отправитель предложения может его отменить"})
		}
		if offer.StatusOffer != models.OfferStatusPending {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя отменить предложение, которое уже не находится в ожидании"})
		}
	case models.OfferStatusCompleted:
		if offer.StatusOffer != models.OfferStatusAccepted {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Завершить можно только принятое предложение"})
		}
	}

	switch newStatus {
	case models.OfferStatusRejected, models.OfferStatusCanceled:
		if errMsg := revertOffer(ctx, tx, offerUUID); errMsg != "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": errMsg})
		}
	case models.OfferStatusCompleted:
		if errMsg := completeOffer(ctx, tx, &offer); errMsg != "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": errMsg})
		}
	}

	// Обновляем статус предложения обмена
	_, err = tx.Exec(ctx, `
		UPDATE offers
		SET status_offer = $1, updated_at = NOW()
		WHERE id = $2
	`, newStatus, offerUUID)

	if err != nil {
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса предложения"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	var message string
	switch newStatus {
	case models.OfferStatusAccepted:
		message = "Предложение обмена принято"
	case models.OfferStatusRejected:
		message = "Предложение обмена отклонено"
	case models.OfferStatusCanceled:
		message = "Предложение обмена отменено"
	case models.OfferStatusCompleted:
		message = "Обмен завершен"
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  message,
		"offer_id": offerID,
		"status":   newStatus,
	})
}

// revertOffer возвращает товары отклоненного или отмененного предложения в доступное
// состояние и удаляет связанные с предложением записи
func revertOffer(ctx context.Context, tx pgx.Tx, offerID uuid.UUID) string {
	// Возвращаем все товары предложения в доступное состояние
	_, err := tx.Exec(ctx, `
		UPDATE items
		SET status_swap = 'available', updated_at = NOW()
		WHERE id IN (SELECT item_id FROM offer_items WHERE offer_id = $1)
	`, offerID)

	if err != nil {
		log.Printf("Ошибка восстановления товаров: %v", err)
		return "Ошибка восстановления товаров"
	}

	// Удаляем товары предложения
	_, err = tx.Exec(ctx, `DELETE FROM offer_items WHERE offer_id = $1`, offerID)
	if err != nil {
		log.Printf("Ошибка удаления товаров предложения: %v", err)
		return "Ошибка удаления товаров предложения"
	}

	// Удаляем сообщения и чаты, связанные с предложением
	_, err = tx.Exec(ctx, `
		DELETE FROM messages WHERE chat_id IN (SELECT id FROM chats WHERE offer_id = $1)
	`, offerID)
	if err != nil {
		log.Printf("Ошибка удаления сообщений: %v", err)
		return "Ошибка удаления сообщений"
	}

	_, err = tx.Exec(ctx, `DELETE FROM chats WHERE offer_id = $1`, offerID)
	if err != nil {
		log.Printf("Ошибка удаления чата: %v", err)
		return "Ошибка удаления чата"
	}

	return ""
}

// completeOffer завершает обмен: каждый товар переходит к противоположной стороне
// и снова становится доступным
func completeOffer(ctx context.Context, tx pgx.Tx, offer *models.Offer) string {
	rows, err := tx.Query(ctx, `
		SELECT item_id, offered_by FROM offer_items WHERE offer_id = $1
	`, offer.ID)

	if err != nil {
		log.Printf("Ошибка запроса товаров предложения: %v", err)
		return "Ошибка получения товаров предложения"
	}

	type transfer struct {
		itemID   uuid.UUID
		newOwner uuid.UUID
	}

	var transfers []transfer
	for rows.Next() {
		var itemID, offeredBy uuid.UUID
		if err := rows.Scan(&itemID, &offeredBy); err != nil {
			rows.Close()
			log.Printf("Ошибка сканирования товара предложения: %v", err)
			return "Ошибка получения товаров предложения"
		}

		// Товар переходит к противоположной стороне обмена
		newOwner := offer.FromUserID
		if offeredBy == offer.FromUserID {
			newOwner = offer.ToUserID
		}

		transfers = append(transfers, transfer{itemID: itemID, newOwner: newOwner})
	}
	rows.Close()

	for _, t := range transfers {
		_, err = tx.Exec(ctx, `
			UPDATE items
			SET user_id = $1, status_swap = 'available', updated_at = NOW()
			WHERE id = $2
		`, t.newOwner, t.itemID)

		if err != nil {
			log.Printf("Ошибка передачи товара: %v", err)
			return "Ошибка передачи товара новому владельцу"
		}
	}

	return ""
}

// lockAndCheckItems блокирует товары одной стороны и проверяет их владельца и доступность.
// Возвращает текст ошибки для ответа клиенту, если проверка не прошла.
func lockAndCheckItems(ctx context.Context, tx pgx.Tx, requested []requestOfferItem, expectedOwner uuid.UUID) ([]lockedItem, string) {
	var items []lockedItem

	for _, req := range requested {
		itemUUID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, "Неверный формат ID товара"
		}

		var item lockedItem
		var allowedCategories []byte

		err = tx.QueryRow(ctx, `
			SELECT id, user_id, price, status_swap, status, allowed_categories
			FROM items
			WHERE id = $1
			FOR UPDATE
		`, itemUUID).Scan(&item.ID, &item.OwnerID, &item.Price, &item.StatusSwap, &item.Status, &allowedCategories)

		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, "Товар не найден"
			}
			log.Printf("Ошибка запроса товара: %v", err)
			return nil, "Ошибка проверки товара"
		}

		if item.OwnerID != expectedOwner {
			return nil, "Товар не принадлежит указанной стороне обмена"
		}

		if item.Status != "active" || item.StatusSwap != models.SwapStatusAvailable {
			return nil, "Один из выбранных товаров недоступен для обмена"
		}

		if err := json.Unmarshal(allowedCategories, &item.AllowedCategories); err != nil {
			item.AllowedCategories = []string{}
		}

		item.Quantity = req.Quantity
		if item.Quantity <= 0 {
			item.Quantity = 1
		}

		items = append(items, item)
	}

	return items, ""
}

// toSelectedItems преобразует заблокированные товары в структуры для расчета
func toSelectedItems(items []lockedItem) []SelectedItem {
	selected := make([]SelectedItem, 0, len(items))
	for _, item := range items {
		selected = append(selected, SelectedItem{
			Price:             item.Price,
			Quantity:          item.Quantity,
			AllowedCategories: item.AllowedCategories,
		})
	}
	return selected
}

// loadOfferItems загружает товары предложения вместе с краткой информацией о них
func loadOfferItems(ctx context.Context, offerID uuid.UUID) []models.OfferItem {
	rows, err := db.Pool.Query(ctx, `
		SELECT oi.id, oi.offer_id, oi.item_id, oi.offered_by, oi.quantity
		FROM offer_items oi
		WHERE oi.offer_id = $1
	`, offerID)

	if err != nil {
		log.Printf("Ошибка запроса товаров предложения: %v", err)
		return nil
	}
	defer rows.Close()

	var offerItems []models.OfferItem
	for rows.Next() {
		var oi models.OfferItem
		if err := rows.Scan(&oi.ID, &oi.OfferID, &oi.ItemID, &oi.OfferedBy, &oi.Quantity); err != nil {
			log.Printf("Ошибка сканирования товара предложения: %v", err)
			continue
		}

		oi.Item = getItemInfo(ctx, oi.ItemID)
		offerItems = append(offerItems, oi)
	}

	return offerItems
}

// getItemInfo получает краткую информацию о товаре
func getItemInfo(ctx context.Context, itemID uuid.UUID) *models.Item {
	var item models.Item
	var allowedCategories []byte

	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, category, price, quantity, status_item, status_swap, allowed_categories
		FROM items
		WHERE id = $1
	`, itemID).Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Price,
		&item.Quantity,
		&item.StatusItem,
		&item.StatusSwap,
		&allowedCategories,
	)

	if err != nil {
		log.Printf("Ошибка получения товара %s: %v", itemID, err)
		return nil
	}

	if err := json.Unmarshal(allowedCategories, &item.AllowedCategories); err != nil {
		item.AllowedCategories = []string{}
	}

	// Получаем изображения товара
	imgRows, err := db.Pool.Query(ctx, `
		SELECT id, url, preview_url, is_main
		FROM item_images
		WHERE item_id = $1
		ORDER BY position ASC
	`, itemID)

	if err != nil {
		log.Printf("Ошибка получения изображений: %v", err)
	} else {
		defer imgRows.Close()

		var images []models.ItemImage
		for imgRows.Next() {
			var image models.ItemImage
			if err := imgRows.Scan(&image.ID, &image.URL, &image.PreviewURL, &image.IsMain); err != nil {
				log.Printf("Ошибка сканирования изображения: %v", err)
				continue
			}
			image.ItemID = itemID
			images = append(images, image)
		}
		item.Images = images
	}

	return &item
}

// getUserInfo получает информацию о пользователе
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
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}
