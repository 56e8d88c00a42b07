package priceai

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/utils"
)

// PriceAIService предоставляет API оценки стоимости товаров
type PriceAIService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	client     *Client
}

// NewPriceAIService создает новый экземпляр PriceAIService
func NewPriceAIService(cfg *config.Config) *PriceAIService {
	return &PriceAIService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		client:     NewClient(cfg.PriceAIConfig.URL, cfg.PriceAIConfig.Token),
	}
}

// EstimateHandler возвращает оценку стоимости товара по его описанию
func (s *PriceAIService) EstimateHandler(c fiber.Ctx) error {
	var request EstimateRequest

	if err := c.Bind().Body(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат запроса",
		})
	}

	if request.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Название товара обязательно",
		})
	}

	result, err := s.client.Estimate(c.Context(), request)
	if err != nil {
		log.Printf("Ошибка запроса оценки стоимости: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Сервис оценки временно недоступен",
		})
	}

	return c.JSON(fiber.Map{
		"price":    result.Price,
		"currency": result.Currency,
	})
}
