package models

import (
	"github.com/google/uuid"
)

// User представляет минимальную информацию о пользователе для API
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Verified  bool      `json:"verified"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
}
