package models

import "time"

// SymptomIntensity описывает закрытый набор интенсивностей симптомов.
type SymptomIntensity string

const (
	// IntensityLight — лёгкая.
	IntensityLight SymptomIntensity = "light"
	// IntensityModerate — умеренная.
	IntensityModerate SymptomIntensity = "moderate"
	// IntensityIntense — сильная.
	IntensityIntense SymptomIntensity = "intense"
)

// Valid сообщает, входит ли значение в допустимый набор интенсивностей.
// Пустое значение допустимо: интенсивность указывается только при наличии симптомов.
func (i SymptomIntensity) Valid() bool {
	switch i {
	case IntensityLight, IntensityModerate, IntensityIntense, "":
		return true
	}
	return false
}

// MenstrualCycle представляет одну запись отслеживаемого цикла.
// CycleDuration ограничено диапазоном [1, 60]; записи выводятся
// по дате начала в обратном порядке.
type MenstrualCycle struct {
	ID                  int              // Идентификатор записи
	StudentID           int              // Ссылка на профиль ученицы
	CycleStartDate      time.Time        // Дата начала цикла
	CycleDuration       int              // Длительность цикла в днях, 1..60
	HasSymptoms         bool             // Есть ли симптомы
	SymptomsDescription string           // Описание симптомов
	SymptomsIntensity   SymptomIntensity // Интенсивность симптомов
	Observations        string           // Замечания
	CreatedAt           time.Time        // Устанавливается при первом сохранении
}

// DummyMenstrualCycle используется для приёма записи цикла из JSON-запроса.
type DummyMenstrualCycle struct {
	CycleStartDate      string `json:"cycle_start_date" validate:"required,datetime=2006-01-02"`
	CycleDuration       int    `json:"cycle_duration" validate:"required,gte=1,lte=60"`
	HasSymptoms         bool   `json:"has_symptoms,omitempty"`
	SymptomsDescription string `json:"symptoms_description,omitempty" validate:"omitempty"`
	SymptomsIntensity   string `json:"symptoms_intensity,omitempty" validate:"omitempty,oneof=light moderate intense"`
	Observations        string `json:"observations,omitempty" validate:"omitempty"`
}
