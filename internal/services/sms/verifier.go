package sms

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Правила выдачи и проверки кодов подтверждения
const (
	codeTTL         = 5 * time.Minute
	maxAttempts     = 5
	maxSendsPerHour = 3
	sendWindow      = time.Hour
)

// Ошибки проверки кода, по которым ветвятся обработчики
var (
	ErrRateLimited     = errors.New("превышен лимит отправки кодов")
	ErrCodeNotFound    = errors.New("код подтверждения не найден")
	ErrCodeExpired     = errors.New("срок действия кода истек")
	ErrTooManyAttempts = errors.New("превышено число попыток ввода кода")
	ErrCodeMismatch    = errors.New("неверный код подтверждения")
)

// Verifier реализует выдачу и проверку SMS-кодов подтверждения телефона
type Verifier struct {
	store  CodeStore
	sender Sender
	now    func() time.Time
}

// NewVerifier создает новый экземпляр Verifier
func NewVerifier(store CodeStore, sender Sender) *Verifier {
	return &Verifier{
		store:  store,
		sender: sender,
		now:    time.Now,
	}
}

// SendCode генерирует код, сохраняет его и отправляет на номер.
// Возвращает ErrRateLimited, если за последний час номер уже получил
// максимальное число кодов.
func (v *Verifier) SendCode(ctx context.Context, phoneNumber string, userID uuid.UUID) error {
	now := v.now()

	// Проверяем лимит отправок за скользящее окно в один час
	count, err := v.store.CountSendsSince(ctx, phoneNumber, now.Add(-sendWindow))
	if err != nil {
		return err
	}

	if count >= maxSendsPerHour {
		return ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("ошибка генерации кода: %w", err)
	}

	record := CodeRecord{
		PhoneNumber: phoneNumber,
		Code:        code,
		UserID:      userID,
		ExpiresAt:   now.Add(codeTTL),
	}

	if err := v.store.SaveCode(ctx, record); err != nil {
		return err
	}

	if err := v.store.RecordSend(ctx, phoneNumber, now); err != nil {
		return err
	}

	return v.sender.Send(ctx, phoneNumber, "Ваш код подтверждения Swibba: "+code)
}

// VerifyCode проверяет код для номера и возвращает ID пользователя,
// запросившего подтверждение. Успешная проверка удаляет код и
// историю отправок для номера.
func (v *Verifier) VerifyCode(ctx context.Context, phoneNumber, code string) (uuid.UUID, error) {
	record, err := v.store.GetCode(ctx, phoneNumber)
	if err != nil {
		if err == ErrNotFound {
			return uuid.Nil, ErrCodeNotFound
		}
		return uuid.Nil, err
	}

	if v.now().After(record.ExpiresAt) {
		_ = v.store.DeleteCode(ctx, phoneNumber)
		return uuid.Nil, ErrCodeExpired
	}

	if record.Attempts >= maxAttempts {
		_ = v.store.DeleteCode(ctx, phoneNumber)
		return uuid.Nil, ErrTooManyAttempts
	}

	if record.Code != code {
		// Счетчик попыток увеличивается до ответа клиенту
		attempts, err := v.store.IncrementAttempts(ctx, phoneNumber)
		if err != nil && err != ErrNotFound {
			return uuid.Nil, err
		}

		if attempts >= maxAttempts {
			_ = v.store.DeleteCode(ctx, phoneNumber)
			return uuid.Nil, ErrTooManyAttempts
		}

		return uuid.Nil, ErrCodeMismatch
	}

	if err := v.store.DeleteCode(ctx, phoneNumber); err != nil {
		return uuid.Nil, err
	}

	if err := v.store.ClearSends(ctx, phoneNumber); err != nil {
		return uuid.Nil, err
	}

	return record.UserID, nil
}

// generateCode возвращает случайный шестизначный код
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
