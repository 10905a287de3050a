package watch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/http/middlewarectx"
	"github.com/bellaforma/studio-membership/internal/models"
	videoservice "github.com/bellaforma/studio-membership/internal/services/video"
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

// MockService реализует интерфейс watch.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Watch(ctx context.Context, videoSlug string, viewer videoservice.Viewer) (*models.Video, error) {
	args := m.Called(ctx, videoSlug, viewer)
	if res := args.Get(0); res != nil {
		return res.(*models.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newWatchRequest(t *testing.T, slug string, userUID, role string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/videos/"+slug+"/watch", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", slug)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userUID != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
		ctx = context.WithValue(ctx, middlewarectx.Role, role)
	}
	return req.WithContext(ctx)
}

func TestWatchHandler(t *testing.T) {
	tests := []struct {
		name           string
		slug           string
		userUID        string
		role           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный просмотр",
			slug:    "pilates-para-iniciantes",
			userUID: "9f1c2a30-0000-0000-0000-000000000001",
			role:    "student",
			setupMock: func(m *MockService) {
				video := &models.Video{ID: 5, Title: "Pilates para iniciantes", Slug: "pilates-para-iniciantes"}
				m.On("Watch", mock.Anything, "pilates-para-iniciantes", videoservice.Viewer{
					UserUID: "9f1c2a30-0000-0000-0000-000000000001",
					Role:    models.RoleStudent,
				}).Return(video, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Slug":"pilates-para-iniciantes"`,
		},
		{
			name: "аноним без доступа",
			slug: "aula-fechada",
			setupMock: func(m *MockService) {
				m.On("Watch", mock.Anything, "aula-fechada", videoservice.Viewer{}).
					Return(nil, videoservice.ErrAccessDenied)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `authentication required`,
		},
		{
			name:    "нет активной подписки",
			slug:    "aula-fechada",
			userUID: "9f1c2a30-0000-0000-0000-000000000002",
			role:    "student",
			setupMock: func(m *MockService) {
				m.On("Watch", mock.Anything, "aula-fechada", mock.Anything).
					Return(nil, videoservice.ErrAccessDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `active subscription with video access required`,
		},
		{
			name: "видео не найдено",
			slug: "nao-existe",
			setupMock: func(m *MockService) {
				m.On("Watch", mock.Anything, "nao-existe", mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `video not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := newWatchRequest(t, tt.slug, tt.userUID, tt.role)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
