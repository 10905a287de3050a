package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePlan(ctx context.Context, plan models.Plan) (int, error) {
	args := m.Called(ctx, plan)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *RepoMock) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *RepoMock) UpdatePlan(ctx context.Context, plan models.Plan, id int) (int, error) {
	args := m.Called(ctx, plan, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemovePlan(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
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

func TestPlanService_Create(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	repo.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p models.Plan) bool {
		return p.Slug == "plano-mensal" &&
			p.Price.Equal(decimal.RequireFromString("150.00")) &&
			p.IsActive
	})).Return(7, nil)
	cache.On("Invalidate", "plans:active").Return(nil)

	svc := NewPlanService(repo, cache, discardLogger())
	id, err := svc.Create(context.Background(), models.DummyPlan{
		Name:     "Plano Mensal",
		Price:    "150.00",
		PlanType: "monthly",
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, id)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPlanService_Create_InvalidPrice(t *testing.T) {
	svc := NewPlanService(new(RepoMock), new(CacheMock), discardLogger())

	_, err := svc.Create(context.Background(), models.DummyPlan{
		Name:     "Plano Mensal",
		Price:    "abc",
		PlanType: "monthly",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), models.DummyPlan{
		Name:     "Plano Mensal",
		Price:    "-10.00",
		PlanType: "monthly",
	})
	assert.Error(t, err)
}

func TestPlanService_List_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cached := []*models.Plan{{ID: 1, Name: "Plano Mensal"}}
	cache.On("Get", "plans:active", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(1).(*[]*models.Plan)
			*out = cached
		}).Return(true, nil)

	svc := NewPlanService(repo, cache, discardLogger())
	plans, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, plans, 1)
	repo.AssertNotCalled(t, "ListPlans", mock.Anything)
}

func TestPlanService_List_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	stored := []*models.Plan{{ID: 1}, {ID: 2}}
	cache.On("Get", "plans:active", mock.Anything).Return(false, nil)
	repo.On("ListPlans", mock.Anything).Return(stored, nil)
	cache.On("Set", "plans:active", stored, time.Hour).Return(nil)

	svc := NewPlanService(repo, cache, discardLogger())
	plans, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, plans, 2)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPlanService_Remove(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	repo.On("RemovePlan", mock.Anything, 3).Return(1, nil)
	cache.On("Invalidate", "plans:active").Return(nil)

	svc := NewPlanService(repo, cache, discardLogger())
	count, err := svc.Remove(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPlanService_Remove_RepoError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RemovePlan", mock.Anything, 3).Return(0, errors.New("db down"))

	svc := NewPlanService(repo, new(CacheMock), discardLogger())
	_, err := svc.Remove(context.Background(), 3)

	assert.Error(t, err)
}
