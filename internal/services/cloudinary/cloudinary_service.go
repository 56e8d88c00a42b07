package cloudinary

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/utils"
)

// CloudinaryService предоставляет методы для работы с Cloudinary
type CloudinaryService struct {
	cfg          *config.Config
	jwtService   *utils.JWTService
	uploadFolder string
	uploadPreset string
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config) *CloudinaryService {
	return &CloudinaryService{
		cfg:          cfg,
		jwtService:   utils.NewJWTService(cfg.JWTSecret),
		uploadFolder: cfg.CloudinaryConfig.UploadFolder,
		uploadPreset: cfg.CloudinaryConfig.UploadPreset,
	}
}

// GenerateSignature создаёт корректную подпись для Cloudinary
func (s *CloudinaryService) GenerateSignature(params url.Values) (string, error) {
	return api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
}

// GenerateUploadParams создаёт параметры для загрузки изображений
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	// Генерируем ID для товара, если не передан
	itemID := c.Query("item_id")
	if itemID == "" {
		itemID = uuid.New().String()
	}

	// Текущий timestamp
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Параметры для подписи
	params := url.Values{}
	params.Set("timestamp", timestamp)

	// Генерируем подпись
	signature, err := s.GenerateSignature(params)
	if err != nil {
		log.Printf("Ошибка генерации подписи Cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ошибка при генерации параметров загрузки",
		})
	}

	// Возвращаем параметры
	return c.JSON(fiber.Map{
		"timestamp":  timestamp,
		"signature":  signature,
		"api_key":    s.cfg.CloudinaryConfig.APIKey,
		"cloud_name": s.cfg.CloudinaryConfig.CloudName,
		"item_id":    itemID,
	})
}
