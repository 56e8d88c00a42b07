package models

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию товаров верхнего уровня
type Category struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	IconURL  string    `json:"icon_url,omitempty"`
	Position int       `json:"position"`
}

// SubCategory представляет подкатегорию внутри категории
type SubCategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Position   int       `json:"position"`
}

// Brand представляет бренд товара
type Brand struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BrandModel представляет модель конкретного бренда
type BrandModel struct {
	ID      uuid.UUID `json:"id"`
	BrandID uuid.UUID `json:"brand_id"`
	Name    string    `json:"name"`
}

// Hint представляет подсказку для формы добавления товара
type Hint struct {
	ID       uuid.UUID `json:"id"`
	Field    string    `json:"field"`
	Text     string    `json:"text"`
	Position int       `json:"position"`
}

// Favorite представляет запись избранного товара
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ItemID    uuid.UUID `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для API
	Item *Item `json:"item,omitempty"`
}
