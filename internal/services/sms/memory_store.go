package sms

import (
	"context"
	"sync"
	"time"
)

// MemoryStore хранит коды подтверждения в памяти процесса.
// Используется в тестах и при локальной разработке без базы данных.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]*CodeRecord
	sends map[string][]time.Time
}

// NewMemoryStore создает новый экземпляр MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes: make(map[string]*CodeRecord),
		sends: make(map[string][]time.Time),
	}
}

// SaveCode сохраняет код, заменяя предыдущий для этого номера
func (s *MemoryStore) SaveCode(_ context.Context, record CodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := record
	s.codes[record.PhoneNumber] = &stored
	return nil
}

// GetCode возвращает текущий код для номера или ErrNotFound
func (s *MemoryStore) GetCode(_ context.Context, phoneNumber string) (*CodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.codes[phoneNumber]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *record
	return &copied, nil
}

// IncrementAttempts атомарно увеличивает счетчик попыток и возвращает новое значение
func (s *MemoryStore) IncrementAttempts(_ context.Context, phoneNumber string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.codes[phoneNumber]
	if !ok {
		return 0, ErrNotFound
	}

	record.Attempts++
	return record.Attempts, nil
}

// DeleteCode удаляет код для номера
func (s *MemoryStore) DeleteCode(_ context.Context, phoneNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, phoneNumber)
	return nil
}

// RecordSend фиксирует факт отправки кода на номер
func (s *MemoryStore) RecordSend(_ context.Context, phoneNumber string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sends[phoneNumber] = append(s.sends[phoneNumber], at)
	return nil
}

// CountSendsSince возвращает количество отправок на номер с указанного момента
func (s *MemoryStore) CountSendsSince(_ context.Context, phoneNumber string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, at := range s.sends[phoneNumber] {
		if !at.Before(since) {
			count++
		}
	}

	return count, nil
}

// ClearSends удаляет историю отправок для номера
func (s *MemoryStore) ClearSends(_ context.Context, phoneNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sends, phoneNumber)
	return nil
}
