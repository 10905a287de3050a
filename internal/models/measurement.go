package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Measurement представляет один снимок измерений ученицы на дату оценки.
// Все величины кроме веса опциональны и неотрицательны.
// BMI — производное поле: пересчитывается при каждой записи, где присутствуют
// вес и рост, в той же транзакции, что и сама запись; иначе остаётся пустым.
type Measurement struct {
	ID                   int              // Идентификатор снимка
	StudentID            int              // Ссылка на профиль ученицы
	MeasurementDate      time.Time        // Дата измерения
	Weight               decimal.Decimal  // Вес, кг
	Height               *decimal.Decimal // Рост, м
	Neck                 *decimal.Decimal // Шея, см
	Chest                *decimal.Decimal // Грудь, см
	Waist                *decimal.Decimal // Талия, см
	Abdomen              *decimal.Decimal // Живот, см
	Hip                  *decimal.Decimal // Бёдра, см
	RightArm             *decimal.Decimal // Правая рука, см
	LeftArm              *decimal.Decimal // Левая рука, см
	RightThigh           *decimal.Decimal // Правое бедро, см
	LeftThigh            *decimal.Decimal // Левое бедро, см
	RightCalf            *decimal.Decimal // Правая голень, см
	LeftCalf             *decimal.Decimal // Левая голень, см
	BodyFatPercentage    *decimal.Decimal // Процент жира
	MuscleMassPercentage *decimal.Decimal // Процент мышечной массы
	BMI                  *decimal.Decimal // Индекс массы тела, производное поле
	Observations         string           // Замечания
	CreatedAt            time.Time        // Устанавливается при первом сохранении
}

// DummyMeasurement используется для приёма измерений из JSON-запроса.
// Десятичные величины приходят строками, чтобы сохранить фиксированную точность.
type DummyMeasurement struct {
	MeasurementDate      string  `json:"measurement_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weight               string  `json:"weight" validate:"required"`
	Height               *string `json:"height,omitempty" validate:"omitempty"`
	Neck                 *string `json:"neck,omitempty" validate:"omitempty"`
	Chest                *string `json:"chest,omitempty" validate:"omitempty"`
	Waist                *string `json:"waist,omitempty" validate:"omitempty"`
	Abdomen              *string `json:"abdomen,omitempty" validate:"omitempty"`
	Hip                  *string `json:"hip,omitempty" validate:"omitempty"`
	RightArm             *string `json:"right_arm,omitempty" validate:"omitempty"`
	LeftArm              *string `json:"left_arm,omitempty" validate:"omitempty"`
	RightThigh           *string `json:"right_thigh,omitempty" validate:"omitempty"`
	LeftThigh            *string `json:"left_thigh,omitempty" validate:"omitempty"`
	RightCalf            *string `json:"right_calf,omitempty" validate:"omitempty"`
	LeftCalf             *string `json:"left_calf,omitempty" validate:"omitempty"`
	BodyFatPercentage    *string `json:"body_fat_percentage,omitempty" validate:"omitempty"`
	MuscleMassPercentage *string `json:"muscle_mass_percentage,omitempty" validate:"omitempty"`
	Observations         string  `json:"observations,omitempty" validate:"omitempty"`
}
