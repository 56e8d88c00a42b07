package payment

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/models"
	"github.com/swibba/swibba-api/internal/utils"
)

// PaymentService представляет сервис для работы с кассовым балансом
type PaymentService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewPaymentService создает новый экземпляр PaymentService
func NewPaymentService(cfg *config.Config) *PaymentService {
	return &PaymentService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// Deposit пополняет баланс пользователя и проверяет порог верификации
func (s *PaymentService) Deposit(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	amount, err := decimal.NewFromString(requestData.Amount)
	if err != nil || !amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма пополнения должна быть положительной"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	transactionID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO cash_transactions (id, user_id, amount, type, status, description)
		VALUES ($1, $2, $3, 'deposit', 'completed', $4)
	`, transactionID, userUUID, amount, requestData.Description)

	if err != nil {
		log.Printf("Ошибка создания операции пополнения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка пополнения баланса"})
	}

	// После пополнения проверяем порог верификации
	verified, err := s.checkAndUpdateVerification(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка проверки верификации: %v", err)
		// Не возвращаем ошибку, т.к. основная функциональность выполнена
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"transaction_id": transactionID,
		"verified":       verified,
		"message":        "Баланс успешно пополнен",
	})
}

// Withdraw выводит средства с баланса пользователя
func (s *PaymentService) Withdraw(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	amount, err := decimal.NewFromString(requestData.Amount)
	if err != nil || !amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма вывода должна быть положительной"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Начинаем транзакцию, чтобы баланс не ушел в минус при параллельных выводах
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Блокируем операции пользователя на время расчета баланса
	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, userUUID)
	if err != nil {
		log.Printf("Ошибка блокировки операций: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	balance, err := balanceForUpdate(ctx, tx, userUUID)
	if err != nil {
		log.Printf("Ошибка расчета баланса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка расчета баланса"})
	}

	if balance.LessThan(amount) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Недостаточно средств на балансе"})
	}

	transactionID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO cash_transactions (id, user_id, amount, type, status, description)
		VALUES ($1, $2, $3, 'withdraw', 'completed', $4)
	`, transactionID, userUUID, amount, requestData.Description)

	if err != nil {
		log.Printf("Ошибка создания операции вывода: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка вывода средств"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"transaction_id": transactionID,
		"message":        "Средства успешно выведены",
	})
}

// GetBalance возвращает текущий баланс и историю операций пользователя
func (s *PaymentService) GetBalance(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	balance, err := currentBalance(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка расчета баланса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка расчета баланса"})
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, amount, type, status, description, created_at
		FROM cash_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса операций: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения операций"})
	}
	defer rows.Close()

	var transactions []models.CashTransaction
	for rows.Next() {
		var t models.CashTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		transactions = append(transactions, t)
	}

	return c.JSON(fiber.Map{
		"balance":      balance,
		"transactions": transactions,
	})
}

// checkAndUpdateVerification отмечает пользователя верифицированным,
// если его баланс достиг порога: min(10% от цены самого дорогого товара, 10000)
func (s *PaymentService) checkAndUpdateVerification(ctx context.Context, userUUID uuid.UUID) (bool, error) {
	// Уже верифицированного пользователя не трогаем
	var alreadyVerified bool
	err := db.Pool.QueryRow(ctx, `
		SELECT verified FROM users WHERE id = $1
	`, userUUID).Scan(&alreadyVerified)

	if err != nil {
		return false, err
	}

	if alreadyVerified {
		return true, nil
	}

	// Самый дорогой доступный товар на площадке
	var topPrice decimal.Decimal
	err = db.Pool.QueryRow(ctx, `
		SELECT price FROM items
		WHERE status = 'active' AND status_swap = 'available'
		ORDER BY price DESC
		LIMIT 1
	`).Scan(&topPrice)

	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	balance, err := currentBalance(ctx, userUUID)
	if err != nil {
		return false, err
	}

	if !MeetsVerificationThreshold(balance, topPrice) {
		return false, nil
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE users
		SET verified = true, verified_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, userUUID)

	if err != nil {
		return false, err
	}

	return true, nil
}

// currentBalance считает баланс как сумму пополнений минус сумму выводов
func currentBalance(ctx context.Context, userUUID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE -amount END), 0)
		FROM cash_transactions
		WHERE user_id = $1 AND status = 'completed'
	`, userUUID).Scan(&balance)

	return balance, err
}

// balanceForUpdate считает баланс внутри транзакции вывода средств
func balanceForUpdate(ctx context.Context, tx pgx.Tx, userUUID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE -amount END), 0)
		FROM cash_transactions
		WHERE user_id = $1 AND status = 'completed'
	`, userUUID).Scan(&balance)

	return balance, err
}
