package sms

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается хранилищем, когда код для номера не существует
var ErrNotFound = errors.New("код подтверждения не найден")

// CodeRecord представляет выданный код подтверждения для номера телефона
type CodeRecord struct {
	PhoneNumber string
	Code        string
	UserID      uuid.UUID
	Attempts    int
	ExpiresAt   time.Time
}

// CodeStore определяет хранилище кодов подтверждения.
// Коды хранятся вне процесса, чтобы переживать рестарты и работать
// при нескольких экземплярах сервиса.
type CodeStore interface {
	// SaveCode сохраняет код, заменяя предыдущий для этого номера
	SaveCode(ctx context.Context, record CodeRecord) error

	// GetCode возвращает текущий код для номера или ErrNotFound
	GetCode(ctx context.Context, phoneNumber string) (*CodeRecord, error)

	// IncrementAttempts атомарно увеличивает счетчик попыток и возвращает новое значение
	IncrementAttempts(ctx context.Context, phoneNumber string) (int, error)

	// DeleteCode удаляет код для номера
	DeleteCode(ctx context.Context, phoneNumber string) error

	// RecordSend фиксирует факт отправки кода на номер
	RecordSend(ctx context.Context, phoneNumber string, at time.Time) error

	// CountSendsSince возвращает количество отправок на номер с указанного момента
	CountSendsSince(ctx context.Context, phoneNumber string, since time.Time) (int, error)

	// ClearSends удаляет историю отправок для номера
	ClearSends(ctx context.Context, phoneNumber string) error
}
