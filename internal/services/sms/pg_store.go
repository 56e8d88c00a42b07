package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/swibba/swibba-api/internal/db"
)

// PGStore хранит коды подтверждения в Postgres
type PGStore struct{}

// NewPGStore создает новый экземпляр PGStore
func NewPGStore() *PGStore {
	return &PGStore{}
}

// SaveCode сохраняет код, заменяя предыдущий для этого номера
func (s *PGStore) SaveCode(ctx context.Context, record CodeRecord) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO phone_verifications (phone_number, code, user_id, attempts, expires_at)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (phone_number)
		DO UPDATE SET code = $2, user_id = $3, attempts = 0, expires_at = $4
	`, record.PhoneNumber, record.Code, record.UserID, record.ExpiresAt)

	if err != nil {
		return fmt.Errorf("ошибка при сохранении кода: %w", err)
	}

	return nil
}

// GetCode возвращает текущий код для номера или ErrNotFound
func (s *PGStore) GetCode(ctx context.Context, phoneNumber string) (*CodeRecord, error) {
	record := &CodeRecord{PhoneNumber: phoneNumber}

	err := db.Pool.QueryRow(ctx, `
		SELECT code, user_id, attempts, expires_at
		FROM phone_verifications
		WHERE phone_number = $1
	`, phoneNumber).Scan(&record.Code, &record.UserID, &record.Attempts, &record.ExpiresAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при запросе кода: %w", err)
	}

	return record, nil
}

// IncrementAttempts атомарно увеличивает счетчик попыток и возвращает новое значение
func (s *PGStore) IncrementAttempts(ctx context.Context, phoneNumber string) (int, error) {
	var attempts int
	err := db.Pool.QueryRow(ctx, `
		UPDATE phone_verifications
		SET attempts = attempts + 1
		WHERE phone_number = $1
		RETURNING attempts
	`, phoneNumber).Scan(&attempts)

	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("ошибка при увеличении счетчика попыток: %w", err)
	}

	return attempts, nil
}

// DeleteCode удаляет код для номера
func (s *PGStore) DeleteCode(ctx context.Context, phoneNumber string) error {
	_, err := db.Pool.Exec(ctx, `
		DELETE FROM phone_verifications WHERE phone_number = $1
	`, phoneNumber)

	if err != nil {
		return fmt.Errorf("ошибка при удалении кода: %w", err)
	}

	return nil
}

// RecordSend фиксирует факт отправки кода на номер
func (s *PGStore) RecordSend(ctx context.Context, phoneNumber string, at time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO phone_verification_sends (phone_number, sent_at)
		VALUES ($1, $2)
	`, phoneNumber, at)

	if err != nil {
		return fmt.Errorf("ошибка при записи отправки: %w", err)
	}

	return nil
}

// CountSendsSince возвращает количество отправок на номер с указанного момента
func (s *PGStore) CountSendsSince(ctx context.Context, phoneNumber string, since time.Time) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM phone_verification_sends
		WHERE phone_number = $1 AND sent_at >= $2
	`, phoneNumber, since).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете отправок: %w", err)
	}

	return count, nil
}

// ClearSends удаляет историю отправок для номера
func (s *PGStore) ClearSends(ctx context.Context, phoneNumber string) error {
	_, err := db.Pool.Exec(ctx, `
		DELETE FROM phone_verification_sends WHERE phone_number = $1
	`, phoneNumber)

	if err != nil {
		return fmt.Errorf("ошибка при очистке истории отправок: %w", err)
	}

	return nil
}
