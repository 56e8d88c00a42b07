package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT сервис для middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// RegisterHandler регистрирует нового пользователя по email и паролю
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var payload struct {
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите корректный email"})
	}

	if len(payload.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен содержать минимум 8 символов"})
	}

	// Хешируем пароль
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка регистрации"})
	}

	user, err := db.CreateUser(payload.Email, payload.PhoneNumber, string(hash), payload.FirstName, payload.LastName)
	if err != nil {
		if err == db.ErrUserExists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
		}
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка регистрации"})
	}

	// Генерируем JWT
	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": jwtToken,
		"user": fiber.Map{
			"id":           user.ID,
			"email":        user.Email,
			"phone_number": user.PhoneNumber,
			"first_name":   user.FirstName,
			"last_name":    user.LastName,
		},
	})
}

// LoginHandler проверяет email и пароль, создает JWT и возвращает его
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := db.GetUserByEmail(payload.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка входа"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	if err := db.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Ошибка обновления времени входа: %v", err)
		// Не возвращаем ошибку, т.к. основная функциональность выполнена
	}

	// Генерируем JWT
	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"avatar_url": user.AvatarURL,
			"verified":   user.Verified,
		},
	})
}

// ProfileHandler возвращает профиль текущего пользователя
func (s *AuthService) ProfileHandler(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	user, err := db.GetUserByID(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":             user.ID,
			"email":          user.Email,
			"phone_number":   user.PhoneNumber,
			"first_name":     user.FirstName,
			"last_name":      user.LastName,
			"avatar_url":     user.AvatarURL,
			"country":        user.Country,
			"city":           user.City,
			"street":         user.Street,
			"verified":       user.Verified,
			"phone_verified": user.PhoneVerified,
			"kyc_complete":   user.KYCComplete(),
		},
	})
}

// UpdateProfileHandler обновляет поля профиля текущего пользователя
func (s *AuthService) UpdateProfileHandler(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var payload struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
		AvatarURL   string `json:"avatar_url"`
		Country     string `json:"country"`
		City        string `json:"city"`
		Street      string `json:"street"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	err = db.UpdateUserProfile(userUUID, payload.FirstName, payload.LastName, payload.PhoneNumber,
		payload.AvatarURL, payload.Country, payload.City, payload.Street)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка обновления профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления профиля"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Профиль успешно обновлен",
	})
}
