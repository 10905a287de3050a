package models

import "time"

// LiveClassStatus описывает закрытый набор статусов прямой трансляции.
type LiveClassStatus string

const (
	// LiveClassScheduled — запланирована.
	LiveClassScheduled LiveClassStatus = "scheduled"
	// LiveClassLive — идёт сейчас.
	LiveClassLive LiveClassStatus = "live"
	// LiveClassFinished — завершена.
	LiveClassFinished LiveClassStatus = "finished"
	// LiveClassCancelled — отменена.
	LiveClassCancelled LiveClassStatus = "cancelled"
)

// Valid сообщает, входит ли значение в допустимый набор статусов.
func (s LiveClassStatus) Valid() bool {
	switch s {
	case LiveClassScheduled, LiveClassLive, LiveClassFinished, LiveClassCancelled:
		return true
	}
	return false
}

// LiveClass представляет запланированную прямую трансляцию.
// Запись удаляется вместе с учётной записью преподавателя; ссылка на
// категорию обнуляется. Архивное видео привязывается только после
// перехода трансляции в статус finished.
type LiveClass struct {
	ID              int             // Идентификатор трансляции
	Title           string          // Заголовок
	Description     string          // Описание
	InstructorUID   string          // Преподаватель (обязательно)
	CategoryID      *int            // Категория (обнуляется при удалении категории)
	ScheduledDate   time.Time       // Дата и время начала
	DurationMinutes int             // Длительность в минутах
	StreamURL       string          // URL трансляции
	ChatEnabled     bool            // Включён ли чат
	Status          LiveClassStatus // Статус трансляции
	ArchivedVideoID *int            // Архивное видео (после завершения)
	MaxParticipants *int            // Лимит участников (опционально)
	CreatedAt       time.Time       // Устанавливается при первом сохранении
}

// DummyLiveClass используется для приёма данных трансляции из JSON-запроса.
type DummyLiveClass struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description,omitempty" validate:"omitempty"`
	CategoryID      *int   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledDate   string `json:"scheduled_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	StreamURL       string `json:"stream_url,omitempty" validate:"omitempty,url"`
	ChatEnabled     *bool  `json:"chat_enabled,omitempty" validate:"omitempty"`
	MaxParticipants *int   `json:"max_participants,omitempty" validate:"omitempty,gt=0"`
}

// DummyLiveClassStatus используется для смены статуса трансляции.
// Архивное видео передаётся только вместе со статусом finished.
type DummyLiveClassStatus struct {
	Status          string `json:"status" validate:"required,oneof=scheduled live finished cancelled"`
	ArchivedVideoID *int   `json:"archived_video_id,omitempty" validate:"omitempty,gt=0"`
}
