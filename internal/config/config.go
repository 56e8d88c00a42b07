package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	Port             string
	JWTSecret        string
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	CloudinaryConfig CloudinaryConfig
	TwilioConfig     TwilioConfig
	PriceAIConfig    PriceAIConfig
	AppEnv           string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	UploadFolder string
}

// TwilioConfig содержит конфигурацию для отправки SMS через Twilio
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// PriceAIConfig содержит конфигурацию внешнего сервиса оценки стоимости
type PriceAIConfig struct {
	URL   string
	Token string
}

// LoadConfig загружает переменные из .env
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "swibba_user"),
		Password: getEnv("PGPASSWORD", "swibba_pass"),
		Name:     getEnv("PGDATABASE", "swibba"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Формируем строку подключения к базе данных
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "swibba_items"),
		UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "swibba"),
	}

	twilioConfig := TwilioConfig{
		AccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		PhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
	}

	priceAIConfig := PriceAIConfig{
		URL:   getEnv("PRICE_AI_URL", ""),
		Token: getEnv("PRICE_AI_TOKEN", ""),
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		CloudinaryConfig: cloudinaryConfig,
		TwilioConfig:     twilioConfig,
		PriceAIConfig:    priceAIConfig,
		AppEnv:           getEnv("APP_ENV", "production"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("❌ Ошибка: Не задан JWT_SECRET")
	}

	return cfg
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
