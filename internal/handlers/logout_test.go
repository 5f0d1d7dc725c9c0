package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

func TestLogoutHandler(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "successful logout",
			wantStatus: http.StatusOK,
		},
		{
			name:       "token already revoked",
			svcErr:     services.ErrRefreshTokenNotFound,
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeTokenRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockLogouter(ctrl)
			mockSvc.EXPECT().
				Logout(gomock.Any(), "refresh-token").
				Return(tt.svcErr)

			r := newBagRequest(http.MethodPost, "/users/logout", func(bag *validation.Bag) {
				bag.SetValue("refresh_token", "refresh-token")
			})
			w := httptest.NewRecorder()

			NewLogoutHandler(mockSvc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Code)
				assert.Equal(t, models.MsgRefreshTokenRevoked, resp.Error)
			}
		})
	}
}
