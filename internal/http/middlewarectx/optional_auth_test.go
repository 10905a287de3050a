package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/http/middlewarectx"
	"github.com/bellaforma/studio-membership/internal/models"
)

func TestOptionalJWTMiddleware(t *testing.T) {
	const uid = "9f1c2a30-0000-0000-0000-000000000001"

	tests := []struct {
		name       string
		authHeader string
		mockUser   *models.User
		mockRole   string
		mockValid  bool
		wantUID    any
		wantRole   any
	}{
		{
			name:       "без заголовка запрос проходит анонимно",
			authHeader: "",
			wantUID:    nil,
			wantRole:   nil,
		},
		{
			name:       "невалидный токен без ошибки не роняет запрос",
			authHeader: "Bearer expiredtoken",
			mockUser:   &models.User{Username: "mariasilva", UID: uid},
			mockValid:  false,
			wantUID:    nil,
			wantRole:   nil,
		},
		{
			name:       "валидный токен наполняет контекст",
			authHeader: "Bearer validtoken",
			mockUser:   &models.User{Username: "mariasilva", UID: uid},
			mockRole:   "student",
			mockValid:  true,
			wantUID:    uid,
			wantRole:   "student",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.authHeader != "" {
				authMock.On("ValidateToken", mock.Anything, mock.Anything).
					Return(tt.mockUser, tt.mockRole, tt.mockValid, nil)
			}

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, tt.wantUID, r.Context().Value(middlewarectx.UserUID))
				assert.Equal(t, tt.wantRole, r.Context().Value(middlewarectx.Role))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.OptionalJWTMiddleware(authMock, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/videos/pilates/watch", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			mw.ServeHTTP(rr, req)

			assert.True(t, handlerCalled, "next handler should always run")
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}
