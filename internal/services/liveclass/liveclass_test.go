package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/models"
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateLiveClass(ctx context.Context, lc models.LiveClass) (int, error) {
	args := m.Called(ctx, lc)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadLiveClass(ctx context.Context, id int) (*models.LiveClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LiveClass), args.Error(1)
}
func (m *RepoMock) ListLiveClasses(ctx context.Context, status *models.LiveClassStatus, limit, offset int) ([]*models.LiveClass, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LiveClass), args.Error(1)
}
func (m *RepoMock) UpdateLiveClassStatus(ctx context.Context, id int, status models.LiveClassStatus, archivedVideoID *int) (int, error) {
	args := m.Called(ctx, id, status, archivedVideoID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RegisterParticipant(ctx context.Context, liveClassID, studentID int) error {
	args := m.Called(ctx, liveClassID, studentID)
	return args.Error(0)
}
func (m *RepoMock) CountParticipants(ctx context.Context, liveClassID int) (int, error) {
	args := m.Called(ctx, liveClassID)
	return args.Int(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLiveClassService_Create(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateLiveClass", mock.Anything, mock.MatchedBy(func(lc models.LiveClass) bool {
		return lc.InstructorUID == "uid-5" && lc.Status == models.LiveClassScheduled &&
			lc.DurationMinutes == 60 && lc.ChatEnabled
	})).Return(4, nil)

	svc := NewLiveClassService(repo, discardLogger())
	id, err := svc.Create(context.Background(), "uid-5", models.DummyLiveClass{
		Title:         "Aula ao vivo",
		ScheduledDate: "2026-09-15T19:00:00-03:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestLiveClassService_Create_BadDate(t *testing.T) {
	svc := NewLiveClassService(new(RepoMock), discardLogger())
	_, err := svc.Create(context.Background(), "uid-5", models.DummyLiveClass{
		Title:         "Aula ao vivo",
		ScheduledDate: "15/09/2026 19:00",
	})
	assert.Error(t, err)
}

func TestLiveClassService_Register(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadLiveClass", mock.Anything, 4).
		Return(&models.LiveClass{ID: 4, Status: models.LiveClassScheduled}, nil)
	repo.On("RegisterParticipant", mock.Anything, 4, 10).Return(nil)

	svc := NewLiveClassService(repo, discardLogger())
	err := svc.Register(context.Background(), 4, 10)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLiveClassService_Register_Finished(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadLiveClass", mock.Anything, 4).
		Return(&models.LiveClass{ID: 4, Status: models.LiveClassFinished}, nil)

	svc := NewLiveClassService(repo, discardLogger())
	err := svc.Register(context.Background(), 4, 10)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "RegisterParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestLiveClassService_Register_Full(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadLiveClass", mock.Anything, 4).
		Return(&models.LiveClass{ID: 4, Status: models.LiveClassLive}, nil)
	repo.On("RegisterParticipant", mock.Anything, 4, 10).
		Return(repository.ErrClassFull)

	svc := NewLiveClassService(repo, discardLogger())
	err := svc.Register(context.Background(), 4, 10)

	assert.ErrorIs(t, err, repository.ErrClassFull)
}

func TestLiveClassService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   models.LiveClassStatus
		next      string
		archiveID *int
		wantErr   error
	}{
		{"scheduled to live", models.LiveClassScheduled, "live", nil, nil},
		{"live to finished", models.LiveClassLive, "finished", nil, nil},
		{"scheduled to cancelled", models.LiveClassScheduled, "cancelled", nil, nil},
		{"scheduled to finished", models.LiveClassScheduled, "finished", nil, ErrInvalidTransition},
		{"finished to live", models.LiveClassFinished, "live", nil, ErrInvalidTransition},
		{"archive on live", models.LiveClassScheduled, "live", intPtr(3), ErrArchiveBeforeFinish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ReadLiveClass", mock.Anything, 4).
				Return(&models.LiveClass{ID: 4, Status: tt.current}, nil)
			repo.On("UpdateLiveClassStatus", mock.Anything, 4,
				models.LiveClassStatus(tt.next), tt.archiveID).Return(1, nil)

			svc := NewLiveClassService(repo, discardLogger())
			_, err := svc.UpdateStatus(context.Background(), 4, models.DummyLiveClassStatus{
				Status:          tt.next,
				ArchivedVideoID: tt.archiveID,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLiveClassService_UpdateStatus_FinishWithArchive(t *testing.T) {
	repo := new(RepoMock)
	archiveID := 7
	repo.On("ReadLiveClass", mock.Anything, 4).
		Return(&models.LiveClass{ID: 4, Status: models.LiveClassLive}, nil)
	repo.On("UpdateLiveClassStatus", mock.Anything, 4,
		models.LiveClassFinished, &archiveID).Return(1, nil)

	svc := NewLiveClassService(repo, discardLogger())
	count, err := svc.UpdateStatus(context.Background(), 4, models.DummyLiveClassStatus{
		Status:          "finished",
		ArchivedVideoID: &archiveID,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func intPtr(v int) *int { return &v }
