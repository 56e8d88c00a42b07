package sms

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/utils"
)

// SMSService предоставляет API подтверждения номера телефона
type SMSService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	verifier   *Verifier
}

// NewSMSService создает новый экземпляр SMSService
func NewSMSService(cfg *config.Config) *SMSService {
	store := NewPGStore()
	sender := NewTwilioSender(cfg.TwilioConfig)

	return &SMSService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		verifier:   NewVerifier(store, sender),
	}
}

// SendCodeHandler отправляет код подтверждения на номер телефона
func (s *SMSService) SendCodeHandler(c fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Пользователь не аутентифицирован",
		})
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Неверный формат ID пользователя",
		})
	}

	var request struct {
		PhoneNumber string `json:"phone_number"`
	}

	if err := c.Bind().Body(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат запроса",
		})
	}

	if request.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Номер телефона обязателен",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.verifier.SendCode(ctx, request.PhoneNumber, uid); err != nil {
		if err == ErrRateLimited {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Слишком много запросов кода, попробуйте позже",
				"code":    "rate_limited",
			})
		}

		log.Printf("Ошибка отправки кода подтверждения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при отправке кода подтверждения",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Код подтверждения отправлен",
	})
}

// VerifyCodeHandler проверяет код подтверждения и помечает номер как подтвержденный
func (s *SMSService) VerifyCodeHandler(c fiber.Ctx) error {
	var request struct {
		PhoneNumber string `json:"phone_number"`
		Code        string `json:"code"`
	}

	if err := c.Bind().Body(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат запроса",
		})
	}

	if request.PhoneNumber == "" || request.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Номер телефона и код обязательны",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	userID, err := s.verifier.VerifyCode(ctx, request.PhoneNumber, request.Code)
	if err != nil {
		switch err {
		case ErrCodeNotFound:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Код подтверждения не найден, запросите новый",
				"code":    "not_found",
			})
		case ErrCodeExpired:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Срок действия кода истек, запросите новый",
				"code":    "expired",
			})
		case ErrTooManyAttempts:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Превышено число попыток, запросите новый код",
				"code":    "too_many_attempts",
			})
		case ErrCodeMismatch:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Неверный код подтверждения",
				"code":    "invalid_code",
			})
		default:
			log.Printf("Ошибка проверки кода подтверждения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Ошибка при проверке кода",
			})
		}
	}

	if err := db.MarkPhoneVerified(userID, request.PhoneNumber); err != nil {
		log.Printf("Ошибка обновления статуса подтверждения телефона: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при обновлении профиля",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Номер телефона подтвержден",
	})
}
