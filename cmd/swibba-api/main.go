package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/swibba/swibba-api/internal/config"
	"github.com/swibba/swibba-api/internal/db"
	"github.com/swibba/swibba-api/internal/services/auth"
	"github.com/swibba/swibba-api/internal/services/catalog"
	"github.com/swibba/swibba-api/internal/services/chat"
	"github.com/swibba/swibba-api/internal/services/cloudinary"
	"github.com/swibba/swibba-api/internal/services/favorite"
	"github.com/swibba/swibba-api/internal/services/item"
	"github.com/swibba/swibba-api/internal/services/offer"
	"github.com/swibba/swibba-api/internal/services/payment"
	"github.com/swibba/swibba-api/internal/services/priceai"
	"github.com/swibba/swibba-api/internal/services/sms"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Swibba API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	catalogService := catalog.NewCatalogService(cfg)
	itemService := item.NewItemService(cfg)
	offerService := offer.NewOfferService(cfg)
	chatService := chat.NewChatService(cfg)
	favoriteService := favorite.NewFavoriteService(cfg)
	paymentService := payment.NewPaymentService(cfg)
	smsService := sms.NewSMSService(cfg)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)
	priceAIService := priceai.NewPriceAIService(cfg)

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	catalogService.SetupRoutes(app)
	itemService.SetupRoutes(app)
	offerService.SetupRoutes(app)
	chatService.SetupRoutes(app)
	favoriteService.SetupRoutes(app)
	paymentService.SetupRoutes(app)
	smsService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)
	priceAIService.SetupRoutes(app)

	// Запускаем сервер
	log.Printf("✅ Swibba API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
