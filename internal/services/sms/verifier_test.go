package sms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	calls int
}

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, body)
	f.calls++
	return nil
}

func newTestVerifier(store CodeStore, sender Sender, start time.Time) (*Verifier, *time.Time) {
	now := start
	v := NewVerifier(store, sender)
	v.now = func() time.Time { return now }
	return v, &now
}

func savedCode(t *testing.T, store CodeStore, phone string) string {
	t.Helper()

	record, err := store.GetCode(context.Background(), phone)
	require.NoError(t, err)
	return record.Code
}

func TestSendCodeRateLimit(t *testing.T) {
	ctx := context.Background()
	phone := "+79991234567"
	userID := uuid.New()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("четвертая отправка за час отклоняется", func(t *testing.T) {
		store := NewMemoryStore()
		sender := &fakeSender{}
		v, _ := newTestVerifier(store, sender, start)

		for i := 0; i < 3; i++ {
			require.NoError(t, v.SendCode(ctx, phone, userID))
		}

		err := v.SendCode(ctx, phone, userID)
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 3, sender.calls)
	})

	t.Run("после окончания окна отправка снова разрешена", func(t *testing.T) {
		store := NewMemoryStore()
		sender := &fakeSender{}
		v, now := newTestVerifier(store, sender, start)

		for i := 0; i < 3; i++ {
			require.NoError(t, v.SendCode(ctx, phone, userID))
		}

		*now = start.Add(time.Hour + time.Minute)
		assert.NoError(t, v.SendCode(ctx, phone, userID))
		assert.Equal(t, 4, sender.calls)
	})

	t.Run("лимит считается отдельно для каждого номера", func(t *testing.T) {
		store := NewMemoryStore()
		sender := &fakeSender{}
		v, _ := newTestVerifier(store, sender, start)

		for i := 0; i < 3; i++ {
			require.NoError(t, v.SendCode(ctx, phone, userID))
		}

		assert.NoError(t, v.SendCode(ctx, "+79997654321", userID))
	})
}

func TestVerifyCode(t *testing.T) {
	ctx := context.Background()
	phone := "+79991234567"
	userID := uuid.New()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("верный код возвращает пользователя и удаляет код", func(t *testing.T) {
		store := NewMemoryStore()
		v, _ := newTestVerifier(store, &fakeSender{}, start)

		require.NoError(t, v.SendCode(ctx, phone, userID))
		code := savedCode(t, store, phone)

		got, err := v.VerifyCode(ctx, phone, code)
		require.NoError(t, err)
		assert.Equal(t, userID, got)

		_, err = v.VerifyCode(ctx, phone, code)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("успешная проверка сбрасывает лимит отправок", func(t *testing.T) {
		store := NewMemoryStore()
		sender := &fakeSender{}
		v, _ := newTestVerifier(store, sender, start)

		for i := 0; i < 3; i++ {
			require.NoError(t, v.SendCode(ctx, phone, userID))
		}

		code := savedCode(t, store, phone)
		_, err := v.VerifyCode(ctx, phone, code)
		require.NoError(t, err)

		assert.NoError(t, v.SendCode(ctx, phone, userID))
	})

	t.Run("код без отправки не найден", func(t *testing.T) {
		store := NewMemoryStore()
		v, _ := newTestVerifier(store, &fakeSender{}, start)

		_, err := v.VerifyCode(ctx, phone, "123456")
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("код истекает через пять минут", func(t *testing.T) {
		store := NewMemoryStore()
		v, now := newTestVerifier(store, &fakeSender{}, start)

		require.NoError(t, v.SendCode(ctx, phone, userID))
		code := savedCode(t, store, phone)

		*now = start.Add(5*time.Minute + time.Second)
		_, err := v.VerifyCode(ctx, phone, code)
		assert.ErrorIs(t, err, ErrCodeExpired)

		// Истекший код удаляется при первой же проверке
		_, err = v.VerifyCode(ctx, phone, code)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("неверный код увеличивает счетчик попыток", func(t *testing.T) {
		store := NewMemoryStore()
		v, _ := newTestVerifier(store, &fakeSender{}, start)

		require.NoError(t, v.SendCode(ctx, phone, userID))
		code := savedCode(t, store, phone)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		for i := 0; i < 4; i++ {
			_, err := v.VerifyCode(ctx, phone, wrong)
			assert.ErrorIs(t, err, ErrCodeMismatch)
		}

		// Пятая неверная попытка удаляет код
		_, err := v.VerifyCode(ctx, phone, wrong)
		assert.ErrorIs(t, err, ErrTooManyAttempts)

		_, err = v.VerifyCode(ctx, phone, code)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("верный код после неудачных попыток принимается", func(t *testing.T) {
		store := NewMemoryStore()
		v, _ := newTestVerifier(store, &fakeSender{}, start)

		require.NoError(t, v.SendCode(ctx, phone, userID))
		code := savedCode(t, store, phone)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		for i := 0; i < 2; i++ {
			_, err := v.VerifyCode(ctx, phone, wrong)
			assert.ErrorIs(t, err, ErrCodeMismatch)
		}

		got, err := v.VerifyCode(ctx, phone, code)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
}
