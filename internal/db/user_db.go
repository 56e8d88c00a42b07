package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrUserExists возвращается при попытке регистрации с занятым email
var ErrUserExists = errors.New("пользователь с таким email уже существует")

// User представляет пользователя в системе
type User struct {
	ID            uuid.UUID
	Email         string
	PhoneNumber   string
	PasswordHash  string
	FirstName     string
	LastName      string
	AvatarURL     string
	Country       string
	City          string
	Street        string
	Verified      bool
	VerifiedAt    *time.Time
	PhoneVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLoginAt   time.Time
}

// KYCComplete проверяет, заполнены ли все поля профиля
func (u *User) KYCComplete() bool {
	return u.FirstName != "" && u.LastName != "" && u.Email != "" &&
		u.PhoneNumber != "" && u.AvatarURL != "" &&
		u.Country != "" && u.City != "" && u.Street != ""
}

// CreateUser создает нового пользователя с email и хешем пароля
func CreateUser(email, phoneNumber, passwordHash, firstName, lastName string) (*User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	// Начинаем транзакцию
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Проверяем, занят ли email
	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)

	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке email: %w", err)
	}

	if exists {
		return nil, ErrUserExists
	}

	user := &User{
		Email:       email,
		PhoneNumber: phoneNumber,
		FirstName:   firstName,
		LastName:    lastName,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, phone_number, password_hash, first_name, last_name, last_login_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`, email, phoneNumber, passwordHash, firstName, lastName).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return user, nil
}

// GetUserByEmail возвращает пользователя по email вместе с хешем пароля
func GetUserByEmail(email string) (*User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	user := &User{}
	var phone, avatar, country, city, street pgtype.Text

	err := Pool.QueryRow(ctx, `
		SELECT id, email, phone_number, password_hash, first_name, last_name,
		       avatar_url, country, city, street, verified, verified_at, phone_verified,
		       created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&avatar,
		&country,
		&city,
		&street,
		&user.Verified,
		&user.VerifiedAt,
		&user.PhoneVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	user.PhoneNumber = textOrEmpty(phone)
	user.AvatarURL = textOrEmpty(avatar)
	user.Country = textOrEmpty(country)
	user.City = textOrEmpty(city)
	user.Street = textOrEmpty(street)

	return user, nil
}

// GetUserByID возвращает пользователя по его ID
func GetUserByID(userID uuid.UUID) (*User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	user := &User{}
	var phone, avatar, country, city, street pgtype.Text

	err := Pool.QueryRow(ctx, `
		SELECT id, email, phone_number, first_name, last_name,
		       avatar_url, country, city, street, verified, verified_at, phone_verified,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID,
		&user.Email,
		&phone,
		&user.FirstName,
		&user.LastName,
		&avatar,
		&country,
		&city,
		&street,
		&user.Verified,
		&user.VerifiedAt,
		&user.PhoneVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	user.PhoneNumber = textOrEmpty(phone)
	user.AvatarURL = textOrEmpty(avatar)
	user.Country = textOrEmpty(country)
	user.City = textOrEmpty(city)
	user.Street = textOrEmpty(street)

	return user, nil
}

// UpdateUserProfile обновляет поля профиля пользователя
func UpdateUserProfile(userID uuid.UUID, firstName, lastName, phoneNumber, avatarURL, country, city, street string) error {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone_number = $3, avatar_url = $4,
		    country = $5, city = $6, street = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`, firstName, lastName, phoneNumber, avatarURL, country, city, street, userID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении профиля: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// UpdateLastLogin обновляет время последнего входа пользователя
func UpdateLastLogin(userID uuid.UUID) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE users
		SET last_login_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, userID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении времени входа: %w", err)
	}

	return nil
}

// MarkPhoneVerified сохраняет подтвержденный номер телефона пользователя
func MarkPhoneVerified(userID uuid.UUID, phoneNumber string) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE users
		SET phone_number = $2, phone_verified = true, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, userID, phoneNumber)

	if err != nil {
		return fmt.Errorf("ошибка при подтверждении телефона: %w", err)
	}

	return nil
}

func textOrEmpty(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}
