package models

import "time"

// ActivityLevel описывает закрытый набор уровней физической активности.
type ActivityLevel string

const (
	// ActivitySedentary — сидячий образ жизни.
	ActivitySedentary ActivityLevel = "sedentary"
	// ActivityLight — лёгкая активность.
	ActivityLight ActivityLevel = "light"
	// ActivityModerate — умеренная активность.
	ActivityModerate ActivityLevel = "moderate"
	// ActivityIntense — интенсивная активность.
	ActivityIntense ActivityLevel = "intense"
	// ActivityAthlete — спортсменка.
	ActivityAthlete ActivityLevel = "athlete"
)

// Valid сообщает, входит ли значение в допустимый набор уровней активности.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityIntense, ActivityAthlete:
		return true
	}
	return false
}

// Anamnesis представляет анкету здоровья ученицы, ровно одна на профиль.
// SleepHours при наличии ограничено диапазоном [0, 24].
type Anamnesis struct {
	ID                      int           // Идентификатор анкеты
	StudentID               int           // Ссылка на профиль (один к одному)
	MainGoal                string        // Основная цель
	SecondaryGoals          string        // Дополнительные цели
	HasHealthIssues         bool          // Есть ли проблемы со здоровьем
	HealthIssuesDescription string        // Описание проблем
	HasInjuries             bool          // Есть ли травмы
	InjuriesDescription     string        // Описание травм
	HasSurgeries            bool          // Были ли операции
	SurgeriesDescription    string        // Описание операций
	TakesMedication         bool          // Принимает ли медикаменты
	MedicationList          string        // Список медикаментов
	ActivityLevel           ActivityLevel // Уровень активности
	PreviousExercises       string        // Предыдущий опыт занятий
	Smoker                  bool          // Курит ли
	AlcoholConsumption      string        // Употребление алкоголя
	SleepHours              *int          // Часы сна, 0..24
	Observations            string        // Общие замечания
	CreatedAt               time.Time     // Устанавливается при первом сохранении
	UpdatedAt               time.Time     // Обновляется при каждом сохранении
}

// DummyAnamnesis используется для приёма анкеты из JSON-запроса.
type DummyAnamnesis struct {
	MainGoal                string `json:"main_goal" validate:"required"`
	SecondaryGoals          string `json:"secondary_goals,omitempty" validate:"omitempty"`
	HasHealthIssues         bool   `json:"has_health_issues,omitempty"`
	HealthIssuesDescription string `json:"health_issues_description,omitempty" validate:"omitempty"`
	HasInjuries             bool   `json:"has_injuries,omitempty"`
	InjuriesDescription     string `json:"injuries_description,omitempty" validate:"omitempty"`
	HasSurgeries            bool   `json:"has_surgeries,omitempty"`
	SurgeriesDescription    string `json:"surgeries_description,omitempty" validate:"omitempty"`
	TakesMedication         bool   `json:"takes_medication,omitempty"`
	MedicationList          string `json:"medication_list,omitempty" validate:"omitempty"`
	ActivityLevel           string `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary light moderate intense athlete"`
	PreviousExercises       string `json:"previous_exercises,omitempty" validate:"omitempty"`
	Smoker                  bool   `json:"smoker,omitempty"`
	AlcoholConsumption      string `json:"alcohol_consumption,omitempty" validate:"omitempty"`
	SleepHours              *int   `json:"sleep_hours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Observations            string `json:"observations,omitempty" validate:"omitempty"`
}
