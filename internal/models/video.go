package models

import "time"

// VideoType описывает закрытый набор типов видео.
type VideoType string

const (
	// VideoRecorded — записанный урок.
	VideoRecorded VideoType = "recorded"
	// VideoLiveArchived — архив прямой трансляции.
	VideoLiveArchived VideoType = "live_archived"
)

// Valid сообщает, входит ли значение в допустимый набор типов.
func (v VideoType) Valid() bool {
	switch v {
	case VideoRecorded, VideoLiveArchived:
		return true
	}
	return false
}

// VideoCategory представляет узел таксономии видеотеки.
type VideoCategory struct {
	ID          int    // Идентификатор категории
	Name        string // Название
	Slug        string // Уникальный slug
	Description string // Описание
	Icon        string // Имя иконки
	Order       int    // Порядок вывода
}

// DummyVideoCategory используется для приёма категории из JSON-запроса.
type DummyVideoCategory struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug,omitempty" validate:"omitempty"`
	Description string `json:"description,omitempty" validate:"omitempty"`
	Icon        string `json:"icon,omitempty" validate:"omitempty"`
	Order       int    `json:"order,omitempty" validate:"omitempty"`
}

// Video представляет запись в видеотеке. Источником служит загруженный файл
// или внешний URL; схема допускает оба, авторитетным считается один.
// Ссылки на категорию и преподавателя обнуляются при их удалении.
// Доступ: публичное видео видно всем, непубличное — по флагу
// requires_subscription и активной подписке с доступом к видео.
type Video struct {
	ID                   int        // Идентификатор видео
	Title                string     // Заголовок
	Slug                 string     // Уникальный slug
	Description          string     // Описание
	CategoryID           *int       // Категория (обнуляется при удалении категории)
	VideoFile            string     // Путь к файлу во внешнем хранилище
	VideoURL             string     // Внешний URL (YouTube, Vimeo и т.п.)
	Thumbnail            string     // Путь к миниатюре
	DurationSeconds      *int       // Длительность в секундах
	VideoType            VideoType  // Тип: recorded или live_archived
	InstructorUID        *string    // Преподаватель (обнуляется при удалении)
	IsPublic             bool       // Доступно без подписки
	RequiresSubscription bool       // Требует активную подписку с доступом к видео
	ViewsCount           int        // Счётчик просмотров
	LikesCount           int        // Счётчик лайков
	CreatedAt            time.Time  // Устанавливается при первом сохранении
	PublishedAt          *time.Time // Момент публикации
}

// DummyVideo используется для приёма данных видео из JSON-запроса.
type DummyVideo struct {
	Title                string  `json:"title" validate:"required"`
	Slug                 string  `json:"slug,omitempty" validate:"omitempty"`
	Description          string  `json:"description,omitempty" validate:"omitempty"`
	CategoryID           *int    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	VideoFile            string  `json:"video_file,omitempty" validate:"omitempty"`
	VideoURL             string  `json:"video_url,omitempty" validate:"omitempty,url"`
	Thumbnail            string  `json:"thumbnail,omitempty" validate:"omitempty"`
	DurationSeconds      *int    `json:"duration_seconds,omitempty" validate:"omitempty,gt=0"`
	VideoType            string  `json:"video_type,omitempty" validate:"omitempty,oneof=recorded live_archived"`
	InstructorUID        *string `json:"instructor_uid,omitempty" validate:"omitempty,uuid"`
	IsPublic             bool    `json:"is_public,omitempty"`
	RequiresSubscription *bool   `json:"requires_subscription,omitempty" validate:"omitempty"`
}
