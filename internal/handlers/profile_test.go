package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
)

func TestGetProfileHandler(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.UserDB
		svcErr     error
		wantStatus int
	}{
		{
			name:       "profile found",
			user:       &models.UserDB{UserID: uuid.New(), Username: "john_2000", Name: "John"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown username",
			svcErr:     services.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockProfileGetter(ctrl)
			mockSvc.EXPECT().
				GetProfile(gomock.Any(), "john_2000").
				Return(tt.user, tt.svcErr)

			r := httptest.NewRequest(http.MethodGet, "/users/john_2000", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("username", "john_2000")
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			NewGetProfileHandler(mockSvc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.user != nil {
				var resp ProfileResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, models.MsgGetProfileSuccess, resp.Message)
				assert.Equal(t, "john_2000", resp.Result.Username)
			}
		})
	}
}
