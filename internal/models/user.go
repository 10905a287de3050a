// Package models содержит доменные структуры студии: пользователи, планы,
// профили учениц, биллинг и библиотека контента. Здесь же определены
// вспомогательные Dummy-типы для приёма данных из JSON-запросов до валидации.
package models

import "time"

// UserRole описывает закрытый набор ролей пользователя.
type UserRole string

const (
	// RoleStudent — ученица студии.
	RoleStudent UserRole = "student"
	// RoleInstructor — преподаватель.
	RoleInstructor UserRole = "instructor"
	// RoleAdmin — администратор.
	RoleAdmin UserRole = "admin"
)

// Valid сообщает, входит ли значение в допустимый набор ролей.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User представляет учётную запись пользователя системы.
// Роль определяет, какой профиль может существовать ниже по цепочке:
// профиль Student создаётся только для пользователя с ролью student.
type User struct {
	UID            string     // Уникальный идентификатор пользователя
	Email          string     // Электронная почта
	Username       string     // Имя пользователя (уникальное)
	PasswordHash   string     // Хэш пароля
	Role           UserRole   // Роль: student, instructor или admin
	FirstName      string     // Имя
	LastName       string     // Фамилия
	Phone          string     // Телефон
	BirthDate      *time.Time // Дата рождения
	ProfilePicture string     // Путь к фото профиля во внешнем хранилище
	CreatedAt      time.Time  // Устанавливается при первом сохранении
	UpdatedAt      time.Time  // Обновляется при каждом сохранении
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,alphanum"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=student instructor admin"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty"`
	Phone     string `json:"phone,omitempty" validate:"omitempty"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
