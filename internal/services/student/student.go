// Package services содержит бизнес-логику профилей учениц, анкет здоровья
// и отслеживания цикла.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bellaforma/studio-membership/internal/lib/cpf"
	"github.com/bellaforma/studio-membership/internal/models"
)

// ErrNotStudentRole возвращается при попытке создать профиль для
// пользователя с ролью, отличной от student.
var ErrNotStudentRole = errors.New("user role is not student")

// StudentRepository определяет методы для работы с профилями в хранилище.
type StudentRepository interface {
	// CreateStudent добавляет новый профиль и возвращает его ID.
	CreateStudent(ctx context.Context, student models.Student) (int, error)
	// ReadStudent возвращает профиль по ID.
	ReadStudent(ctx context.Context, id int) (*models.Student, error)
	// ReadStudentByUserUID возвращает профиль по UID пользователя.
	ReadStudentByUserUID(ctx context.Context, userUID string) (*models.Student, error)
	// ListStudents возвращает профили с пагинацией.
	ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error)
	// UpdateStudent обновляет профиль по ID.
	UpdateStudent(ctx context.Context, student models.Student, id int) (int, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpsertAnamnesis создаёт или обновляет анкету здоровья профиля.
	UpsertAnamnesis(ctx context.Context, a models.Anamnesis) (int, error)
	// ReadAnamnesis возвращает анкету по ID профиля.
	ReadAnamnesis(ctx context.Context, studentID int) (*models.Anamnesis, error)

	// CreateCycle добавляет запись цикла и возвращает её ID.
	CreateCycle(ctx context.Context, c models.MenstrualCycle) (int, error)
	// ListCycles возвращает записи цикла профиля с пагинацией.
	ListCycles(ctx context.Context, studentID, limit, offset int) ([]*models.MenstrualCycle, error)
}

// StudentService реализует бизнес-логику профилей учениц.
type StudentService struct {
	repo StudentRepository
	log  *slog.Logger
}

// NewStudentService создает новый экземпляр StudentService.
func NewStudentService(repo StudentRepository, log *slog.Logger) *StudentService {
	return &StudentService{
		repo: repo,
		log:  log,
	}
}

// Create создает профиль ученицы: проверяет роль пользователя и CPF,
// нормализует CPF до цифр и возвращает ID профиля.
func (s *StudentService) Create(ctx context.Context, req models.DummyStudent) (int, error) {
	user, err := s.repo.GetUser(ctx, req.UserUID)
	if err != nil {
		return 0, err
	}
	if user.Role != models.RoleStudent {
		return 0, ErrNotStudentRole
	}

	normalizedCPF, err := cpf.Normalize(req.CPF)
	if err != nil {
		return 0, fmt.Errorf("invalid cpf: %w", err)
	}

	enrollmentDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EnrollmentDate != "" {
		enrollmentDate, err = time.Parse("2006-01-02", req.EnrollmentDate)
		if err != nil {
			return 0, fmt.Errorf("invalid enrollment date: %w", err)
		}
	}

	student := models.Student{
		UserUID:               req.UserUID,
		CPF:                   normalizedCPF,
		RG:                    req.RG,
		Address:               req.Address,
		City:                  req.City,
		State:                 req.State,
		ZipCode:               req.ZipCode,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		IsActive:              true,
		EnrollmentDate:        enrollmentDate,
		PlanID:                req.PlanID,
	}

	id, err := s.repo.CreateStudent(ctx, student)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new student profile", slog.Int("id", id))
	return id, nil
}

// Read возвращает профиль по ID.
func (s *StudentService) Read(ctx context.Context, id int) (*models.Student, error) {
	return s.repo.ReadStudent(ctx, id)
}

// ReadByUser возвращает профиль по UID пользователя.
func (s *StudentService) ReadByUser(ctx context.Context, userUID string) (*models.Student, error) {
	return s.repo.ReadStudentByUserUID(ctx, userUID)
}

// List возвращает профили с пагинацией.
func (s *StudentService) List(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	return s.repo.ListStudents(ctx, limit, offset)
}

// Update обновляет профиль. Деактивация мягкая: история измерений,
// платежей и анкета сохраняются.
func (s *StudentService) Update(ctx context.Context, req models.DummyStudentUpdate, id int) (int, error) {
	current, err := s.repo.ReadStudent(ctx, id)
	if err != nil {
		return 0, err
	}

	updated := *current
	if req.RG != "" {
		updated.RG = req.RG
	}
	if req.Address != "" {
		updated.Address = req.Address
	}
	if req.City != "" {
		updated.City = req.City
	}
	if req.State != "" {
		updated.State = req.State
	}
	if req.ZipCode != "" {
		updated.ZipCode = req.ZipCode
	}
	if req.EmergencyContactName != "" {
		updated.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != "" {
		updated.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	if req.PlanID != nil {
		updated.PlanID = req.PlanID
	}

	res, err := s.repo.UpdateStudent(ctx, updated, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated student profile", slog.Int("id", id))
	return res, nil
}

// UpsertAnamnesis создаёт или заменяет анкету здоровья профиля.
// Анкета одна на профиль: повторная отправка обновляет существующую.
func (s *StudentService) UpsertAnamnesis(ctx context.Context, studentID int, req models.DummyAnamnesis) (int, error) {
	if _, err := s.repo.ReadStudent(ctx, studentID); err != nil {
		return 0, err
	}

	activityLevel := models.ActivitySedentary
	if req.ActivityLevel != "" {
		activityLevel = models.ActivityLevel(req.ActivityLevel)
	}

	a := models.Anamnesis{
		StudentID:               studentID,
		MainGoal:                req.MainGoal,
		SecondaryGoals:          req.SecondaryGoals,
		HasHealthIssues:         req.HasHealthIssues,
		HealthIssuesDescription: req.HealthIssuesDescription,
		HasInjuries:             req.HasInjuries,
		InjuriesDescription:     req.InjuriesDescription,
		HasSurgeries:            req.HasSurgeries,
		SurgeriesDescription:    req.SurgeriesDescription,
		TakesMedication:         req.TakesMedication,
		MedicationList:          req.MedicationList,
		ActivityLevel:           activityLevel,
		PreviousExercises:       req.PreviousExercises,
		Smoker:                  req.Smoker,
		AlcoholConsumption:      req.AlcoholConsumption,
		SleepHours:              req.SleepHours,
		Observations:            req.Observations,
	}

	id, err := s.repo.UpsertAnamnesis(ctx, a)
	if err != nil {
		return 0, err
	}
	s.log.Info("saved anamnesis", slog.Int("student_id", studentID))
	return id, nil
}

// ReadAnamnesis возвращает анкету профиля.
func (s *StudentService) ReadAnamnesis(ctx context.Context, studentID int) (*models.Anamnesis, error) {
	return s.repo.ReadAnamnesis(ctx, studentID)
}

// CreateCycle добавляет запись отслеживаемого цикла.
func (s *StudentService) CreateCycle(ctx context.Context, studentID int, req models.DummyMenstrualCycle) (int, error) {
	startDate, err := time.Parse("2006-01-02", req.CycleStartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid cycle start date: %w", err)
	}

	c := models.MenstrualCycle{
		StudentID:           studentID,
		CycleStartDate:      startDate,
		CycleDuration:       req.CycleDuration,
		HasSymptoms:         req.HasSymptoms,
		SymptomsDescription: req.SymptomsDescription,
		SymptomsIntensity:   models.SymptomIntensity(req.SymptomsIntensity),
		Observations:        req.Observations,
	}

	id, err := s.repo.CreateCycle(ctx, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("created cycle entry", slog.Int("id", id), slog.Int("student_id", studentID))
	return id, nil
}

// ListCycles возвращает записи цикла по дате начала в обратном порядке.
func (s *StudentService) ListCycles(ctx context.Context, studentID, limit, offset int) ([]*models.MenstrualCycle, error) {
	return s.repo.ListCycles(ctx, studentID, limit, offset)
}
