package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateStudent(ctx context.Context, student models.Student) (int, error) {
	args := m.Called(ctx, student)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadStudent(ctx context.Context, id int) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
func (m *RepoMock) ReadStudentByUserUID(ctx context.Context, userUID string) (*models.Student, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
func (m *RepoMock) ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}
func (m *RepoMock) UpdateStudent(ctx context.Context, student models.Student, id int) (int, error) {
	args := m.Called(ctx, student, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) UpsertAnamnesis(ctx context.Context, a models.Anamnesis) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadAnamnesis(ctx context.Context, studentID int) (*models.Anamnesis, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Anamnesis), args.Error(1)
}
func (m *RepoMock) CreateCycle(ctx context.Context, c models.MenstrualCycle) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListCycles(ctx context.Context, studentID, limit, offset int) ([]*models.MenstrualCycle, error) {
	args := m.Called(ctx, studentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenstrualCycle), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validCPF = "529.982.247-25"

func TestStudentService_Create(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Role: models.RoleStudent}, nil)
	repo.On("CreateStudent", mock.Anything, mock.MatchedBy(func(st models.Student) bool {
		return st.CPF == "52998224725" && st.IsActive
	})).Return(10, nil)

	svc := NewStudentService(repo, discardLogger())
	id, err := svc.Create(context.Background(), models.DummyStudent{
		UserUID: "uid-1",
		CPF:     validCPF,
	})

	assert.NoError(t, err)
	assert.Equal(t, 10, id)
	repo.AssertExpectations(t)
}

func TestStudentService_Create_WrongRole(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-2").
		Return(&models.User{UID: "uid-2", Role: models.RoleInstructor}, nil)

	svc := NewStudentService(repo, discardLogger())
	_, err := svc.Create(context.Background(), models.DummyStudent{
		UserUID: "uid-2",
		CPF:     validCPF,
	})

	assert.ErrorIs(t, err, ErrNotStudentRole)
	repo.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
}

func TestStudentService_Create_InvalidCPF(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Role: models.RoleStudent}, nil)

	svc := NewStudentService(repo, discardLogger())
	_, err := svc.Create(context.Background(), models.DummyStudent{
		UserUID: "uid-1",
		CPF:     "111.111.111-11",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
}

func TestStudentService_Update_SoftDeactivation(t *testing.T) {
	repo := new(RepoMock)
	inactive := false
	current := &models.Student{
		ID:       10,
		UserUID:  "uid-1",
		CPF:      "52998224725",
		City:     "Curitiba",
		IsActive: true,
	}
	repo.On("ReadStudent", mock.Anything, 10).Return(current, nil)
	repo.On("UpdateStudent", mock.Anything, mock.MatchedBy(func(st models.Student) bool {
		// профиль выключается, остальные поля не трогаются
		return !st.IsActive && st.City == "Curitiba" && st.CPF == "52998224725"
	}), 10).Return(1, nil)

	svc := NewStudentService(repo, discardLogger())
	count, err := svc.Update(context.Background(), models.DummyStudentUpdate{
		IsActive: &inactive,
	}, 10)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
}

func TestStudentService_UpsertAnamnesis(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadStudent", mock.Anything, 10).
		Return(&models.Student{ID: 10}, nil)
	repo.On("UpsertAnamnesis", mock.Anything, mock.MatchedBy(func(a models.Anamnesis) bool {
		return a.StudentID == 10 && a.ActivityLevel == models.ActivityModerate
	})).Return(3, nil)

	svc := NewStudentService(repo, discardLogger())
	id, err := svc.UpsertAnamnesis(context.Background(), 10, models.DummyAnamnesis{
		MainGoal:      "melhorar postura",
		ActivityLevel: "moderate",
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestStudentService_UpsertAnamnesis_UnknownStudent(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadStudent", mock.Anything, 99).
		Return(nil, errors.New("not found"))

	svc := NewStudentService(repo, discardLogger())
	_, err := svc.UpsertAnamnesis(context.Background(), 99, models.DummyAnamnesis{
		MainGoal: "emagrecer",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpsertAnamnesis", mock.Anything, mock.Anything)
}

func TestStudentService_CreateCycle(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateCycle", mock.Anything, mock.MatchedBy(func(c models.MenstrualCycle) bool {
		return c.StudentID == 10 && c.CycleDuration == 28
	})).Return(5, nil)

	svc := NewStudentService(repo, discardLogger())
	id, err := svc.CreateCycle(context.Background(), 10, models.DummyMenstrualCycle{
		CycleStartDate: "2026-08-01",
		CycleDuration:  28,
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestStudentService_CreateCycle_BadDate(t *testing.T) {
	svc := NewStudentService(new(RepoMock), discardLogger())
	_, err := svc.CreateCycle(context.Background(), 10, models.DummyMenstrualCycle{
		CycleStartDate: "01-08-2026",
		CycleDuration:  28,
	})
	assert.Error(t, err)
}
