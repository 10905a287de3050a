package models

import "time"

// Student представляет профиль ученицы — расширение пользователя с ролью student.
// Связь с пользователем исключительная: один профиль на учётную запись.
// PlanID хранит текущую модальность независимо от записей биллинга и
// обнуляется при удалении плана.
type Student struct {
	ID                    int       // Идентификатор профиля
	UserUID               string    // Ссылка на пользователя (один к одному)
	CPF                   string    // Уникальный национальный идентификатор
	RG                    string    // Документ (опционально)
	Address               string    // Адрес
	City                  string    // Город
	State                 string    // Штат, две буквы
	ZipCode               string    // Почтовый индекс
	EmergencyContactName  string    // Контакт для экстренной связи
	EmergencyContactPhone string    // Телефон для экстренной связи
	IsActive              bool      // Мягкая деактивация, история не удаляется
	EnrollmentDate        time.Time // Дата зачисления
	PlanID                *int      // Текущая модальность (опционально)
}

// DummyStudent используется для приёма данных профиля из JSON-запроса.
type DummyStudent struct {
	UserUID               string `json:"user_uid" validate:"required,uuid"`
	CPF                   string `json:"cpf" validate:"required"`
	RG                    string `json:"rg,omitempty" validate:"omitempty"`
	Address               string `json:"address,omitempty" validate:"omitempty"`
	City                  string `json:"city,omitempty" validate:"omitempty"`
	State                 string `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode               string `json:"zip_code,omitempty" validate:"omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty" validate:"omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty" validate:"omitempty"`
	EnrollmentDate        string `json:"enrollment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PlanID                *int   `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
}

// DummyStudentUpdate используется для обновления профиля, включая мягкую деактивацию.
type DummyStudentUpdate struct {
	RG                    string `json:"rg,omitempty" validate:"omitempty"`
	Address               string `json:"address,omitempty" validate:"omitempty"`
	City                  string `json:"city,omitempty" validate:"omitempty"`
	State                 string `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode               string `json:"zip_code,omitempty" validate:"omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty" validate:"omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty" validate:"omitempty"`
	IsActive              *bool  `json:"is_active,omitempty" validate:"omitempty"`
	PlanID                *int   `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
}
