package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item представляет товар, выставленный на обмен
type Item struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	SubCategory       string          `json:"sub_category,omitempty"`
	Brand             string          `json:"brand,omitempty"`
	Model             string          `json:"model,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	StatusItem        string          `json:"status_item"` // new, excellent, good, used, needs_repair, damaged
	StatusSwap        string          `json:"status_swap"` // available, unavailable
	AllowedCategories []string        `json:"allowed_categories"`
	Latitude          *float64        `json:"latitude,omitempty"`
	Longitude         *float64        `json:"longitude,omitempty"`
	Images            []ItemImage     `json:"images"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Дополнительные поля для API
	Owner *User `json:"owner,omitempty"`
}

// ItemImage представляет изображение товара
type ItemImage struct {
	ID         uuid.UUID     `json:"id"`
	ItemID     uuid.UUID     `json:"item_id"`
	URL        string        `json:"url"`
	PreviewURL string        `json:"preview_url,omitempty"`
	PublicID   string        `json:"public_id"`
	FileName   string        `json:"file_name,omitempty"`
	IsMain     bool          `json:"is_main"`
	Position   int           `json:"position"`
	Metadata   ImageMetadata `json:"metadata,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ImageMetadata содержит ключевые метаданные изображения из Cloudinary
type ImageMetadata struct {
	AssetID   string    `json:"asset_id"`
	PublicID  string    `json:"public_id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	Bytes     int       `json:"bytes"`
}

// CloudinaryResponse представляет ответ от Cloudinary API
type CloudinaryResponse struct {
	AssetID      string    `json:"asset_id"`
	PublicID     string    `json:"public_id"`
	Version      int       `json:"version"`
	Signature    string    `json:"signature"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Format       string    `json:"format"`
	ResourceType string    `json:"resource_type"`
	CreatedAt    time.Time `json:"created_at"`
	Bytes        int       `json:"bytes"`
	URL          string    `json:"url"`
	SecureURL    string    `json:"secure_url"`
	Eager        []Eager   `json:"eager"`
}

// Eager содержит информацию о трансформациях изображения
type Eager struct {
	Status    string `json:"status"`
	BatchID   string `json:"batch_id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

// ExtractMetadata извлекает основные метаданные из ответа Cloudinary
func ExtractMetadata(cr CloudinaryResponse) ImageMetadata {
	return ImageMetadata{
		AssetID:   cr.AssetID,
		PublicID:  cr.PublicID,
		Width:     cr.Width,
		Height:    cr.Height,
		CreatedAt: cr.CreatedAt,
		Bytes:     cr.Bytes,
	}
}

// ExtractPreviewURL извлекает URL превью из ответа Cloudinary
func ExtractPreviewURL(cr CloudinaryResponse) string {
	for _, eager := range cr.Eager {
		if eager.Status == "processing" || eager.Status == "completed" {
			return eager.SecureURL
		}
	}
	return ""
}

// ParseCloudinaryResponse конвертирует JSON-ответ от Cloudinary в структуру
func ParseCloudinaryResponse(jsonData []byte) (CloudinaryResponse, error) {
	var response CloudinaryResponse
	err := json.Unmarshal(jsonData, &response)
	return response, err
}
