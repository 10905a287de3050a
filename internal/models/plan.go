package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanType описывает закрытый набор периодов тарификации плана.
type PlanType string

const (
	// PlanMonthly — месячный план.
	PlanMonthly PlanType = "monthly"
	// PlanQuarterly — квартальный план.
	PlanQuarterly PlanType = "quarterly"
	// PlanSemiannual — полугодовой план.
	PlanSemiannual PlanType = "semiannual"
	// PlanAnnual — годовой план.
	PlanAnnual PlanType = "annual"
)

// Valid сообщает, входит ли значение в допустимый набор периодов.
func (p PlanType) Valid() bool {
	switch p {
	case PlanMonthly, PlanQuarterly, PlanSemiannual, PlanAnnual:
		return true
	}
	return false
}

// Plan представляет продаваемый тариф студии.
// Slug уникален, цена неотрицательна, порядок вывода задаётся вручную.
type Plan struct {
	ID             int             // Идентификатор плана
	Name           string          // Название плана
	Slug           string          // Уникальный slug
	Description    string          // Описание
	Price          decimal.Decimal // Цена, 2 знака после запятой
	PlanType       PlanType        // Период тарификации
	Benefits       []string        // Упорядоченный список преимуществ
	ClassesPerWeek *int            // Количество занятий в неделю (опционально)
	HasVideoAccess bool            // Даёт ли план доступ к видеотеке
	IsActive       bool            // Активен ли план
	Order          int             // Порядок вывода в каталоге
	CreatedAt      time.Time       // Устанавливается при первом сохранении
}

// DummyPlan используется для приёма данных плана из JSON-запроса.
// Цена приходит строкой, чтобы сохранить фиксированную точность.
type DummyPlan struct {
	Name           string   `json:"name" validate:"required"`
	Slug           string   `json:"slug,omitempty" validate:"omitempty"`
	Description    string   `json:"description,omitempty" validate:"omitempty"`
	Price          string   `json:"price" validate:"required"`
	PlanType       string   `json:"plan_type" validate:"required,oneof=monthly quarterly semiannual annual"`
	Benefits       []string `json:"benefits,omitempty" validate:"omitempty"`
	ClassesPerWeek *int     `json:"classes_per_week,omitempty" validate:"omitempty,gte=0"`
	HasVideoAccess *bool    `json:"has_video_access,omitempty" validate:"omitempty"`
	IsActive       *bool    `json:"is_active,omitempty" validate:"omitempty"`
	Order          int      `json:"order,omitempty" validate:"omitempty"`
}
