package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы предложения обмена
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCanceled  = "canceled"
	OfferStatusCompleted = "completed"
)

// Статусы доступности товара
const (
	SwapStatusAvailable   = "available"
	SwapStatusUnavailable = "unavailable"
)

// Offer представляет предложение об обмене между двумя пользователями
type Offer struct {
	ID             uuid.UUID       `json:"id"`
	FromUserID     uuid.UUID       `json:"from_user_id"`
	ToUserID       uuid.UUID       `json:"to_user_id"`
	CashAdjustment decimal.Decimal `json:"cash_adjustment"`
	StatusOffer    string          `json:"status_offer"` // pending, accepted, rejected, canceled, completed
	Message        string          `json:"message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Дополнительные поля для API
	Items    []OfferItem `json:"items,omitempty"`
	FromUser *User       `json:"from_user,omitempty"`
	ToUser   *User       `json:"to_user,omitempty"`
	ChatID   uuid.UUID   `json:"chat_id,omitempty"` // ID связанного чата
}

// OfferItem представляет один товар, включенный в предложение обмена
type OfferItem struct {
	ID        uuid.UUID `json:"id"`
	OfferID   uuid.UUID `json:"offer_id"`
	ItemID    uuid.UUID `json:"item_id"`
	OfferedBy uuid.UUID `json:"offered_by"`
	Quantity  int       `json:"quantity"`

	// Дополнительные поля для API
	Item *Item `json:"item,omitempty"`
}
