package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateVideoCategory(ctx context.Context, c models.VideoCategory) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListVideoCategories(ctx context.Context) ([]*models.VideoCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VideoCategory), args.Error(1)
}
func (m *RepoMock) CreateVideo(ctx context.Context, v models.Video) (int, error) {
	args := m.Called(ctx, v)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadVideo(ctx context.Context, id int) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}
func (m *RepoMock) ReadVideoBySlug(ctx context.Context, slug string) (*models.Video, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}
func (m *RepoMock) ListVideos(ctx context.Context, categoryID *int, limit, offset int) ([]*models.Video, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}
func (m *RepoMock) IncrementVideoViews(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *RepoMock) IncrementVideoLikes(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *RepoMock) ReadStudentByUserUID(ctx context.Context, userUID string) (*models.Student, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
func (m *RepoMock) HasActiveVideoSubscription(ctx context.Context, studentID int) (bool, error) {
	args := m.Called(ctx, studentID)
	return args.Bool(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVideoService_Create(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v models.Video) bool {
		return v.Slug == "aula-de-pilates" && v.RequiresSubscription &&
			v.VideoType == models.VideoRecorded && v.PublishedAt != nil
	})).Return(3, nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	id, err := svc.Create(context.Background(), models.DummyVideo{
		Title:    "Aula de Pilates",
		VideoURL: "https://videos.example.com/aula-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestVideoService_Create_NoSource(t *testing.T) {
	svc := NewVideoService(new(RepoMock), new(CacheMock), discardLogger())
	_, err := svc.Create(context.Background(), models.DummyVideo{
		Title: "Aula sem fonte",
	})
	assert.Error(t, err)
}

func TestVideoService_Watch_PublicVideo(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadVideoBySlug", mock.Anything, "aula-aberta").
		Return(&models.Video{ID: 1, Slug: "aula-aberta", IsPublic: true, ViewsCount: 9}, nil)
	repo.On("IncrementVideoViews", mock.Anything, 1).Return(nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	// анонимный зритель
	video, err := svc.Watch(context.Background(), "aula-aberta", Viewer{})

	assert.NoError(t, err)
	assert.Equal(t, 10, video.ViewsCount)
}

func TestVideoService_Watch_AnonymousDenied(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadVideoBySlug", mock.Anything, "aula-fechada").
		Return(&models.Video{ID: 2, IsPublic: false, RequiresSubscription: true}, nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	_, err := svc.Watch(context.Background(), "aula-fechada", Viewer{})

	assert.ErrorIs(t, err, ErrAccessDenied)
	repo.AssertNotCalled(t, "IncrementVideoViews", mock.Anything, mock.Anything)
}

func TestVideoService_Watch_SubscriberAllowed(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadVideoBySlug", mock.Anything, "aula-fechada").
		Return(&models.Video{ID: 2, IsPublic: false, RequiresSubscription: true}, nil)
	repo.On("ReadStudentByUserUID", mock.Anything, "uid-1").
		Return(&models.Student{ID: 10}, nil)
	repo.On("HasActiveVideoSubscription", mock.Anything, 10).Return(true, nil)
	repo.On("IncrementVideoViews", mock.Anything, 2).Return(nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	video, err := svc.Watch(context.Background(), "aula-fechada",
		Viewer{UserUID: "uid-1", Role: models.RoleStudent})

	assert.NoError(t, err)
	assert.Equal(t, 2, video.ID)
}

func TestVideoService_Watch_NoSubscriptionDenied(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadVideoBySlug", mock.Anything, "aula-fechada").
		Return(&models.Video{ID: 2, IsPublic: false, RequiresSubscription: true}, nil)
	repo.On("ReadStudentByUserUID", mock.Anything, "uid-1").
		Return(&models.Student{ID: 10}, nil)
	repo.On("HasActiveVideoSubscription", mock.Anything, 10).Return(false, nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	_, err := svc.Watch(context.Background(), "aula-fechada",
		Viewer{UserUID: "uid-1", Role: models.RoleStudent})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestVideoService_Watch_InstructorAllowed(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadVideoBySlug", mock.Anything, "aula-fechada").
		Return(&models.Video{ID: 2, IsPublic: false, RequiresSubscription: true}, nil)
	repo.On("IncrementVideoViews", mock.Anything, 2).Return(nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	_, err := svc.Watch(context.Background(), "aula-fechada",
		Viewer{UserUID: "uid-5", Role: models.RoleInstructor})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "HasActiveVideoSubscription", mock.Anything, mock.Anything)
}

func TestVideoService_Watch_AuthenticatedFreeVideo(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadVideoBySlug", mock.Anything, "aula-gratuita").
		Return(&models.Video{ID: 3, IsPublic: false, RequiresSubscription: false}, nil)
	repo.On("IncrementVideoViews", mock.Anything, 3).Return(nil)

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	_, err := svc.Watch(context.Background(), "aula-gratuita",
		Viewer{UserUID: "uid-1", Role: models.RoleStudent})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "HasActiveVideoSubscription", mock.Anything, mock.Anything)
}

func TestVideoService_ListCategories_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	stored := []*models.VideoCategory{{ID: 1, Name: "Pilates"}}
	cache.On("Get", "video-categories:all", mock.Anything).Return(false, nil)
	repo.On("ListVideoCategories", mock.Anything).Return(stored, nil)
	cache.On("Set", "video-categories:all", stored, time.Hour).Return(nil)

	svc := NewVideoService(repo, cache, discardLogger())
	categories, err := svc.ListCategories(context.Background())

	assert.NoError(t, err)
	assert.Len(t, categories, 1)
	cache.AssertExpectations(t)
}

func TestVideoService_Like_Unknown(t *testing.T) {
	repo := new(RepoMock)
	repo.On("IncrementVideoLikes", mock.Anything, 99).Return(errors.New("not found"))

	svc := NewVideoService(repo, new(CacheMock), discardLogger())
	err := svc.Like(context.Background(), 99)

	assert.Error(t, err)
}
