package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// newBagRequest builds a request whose context carries a pre-validated
// bag, the state a handler sees after its validators ran.
func newBagRequest(method, target string, seed func(bag *validation.Bag)) *http.Request {
	bag := validation.NewBag()
	if seed != nil {
		seed(bag)
	}
	r := httptest.NewRequest(method, target, nil)
	return r.WithContext(middlewares.WithBag(r.Context(), bag))
}

func TestRegisterHandler(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		svcPair    *models.TokenPair
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "successful registration",
			svcPair:    &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "email already exists",
			svcErr:     services.ErrEmailAlreadyExists,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeEmailAlreadyExists,
		},
		{
			name:       "service error",
			svcErr:     errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   models.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockRegisterer(ctrl)
			mockSvc.EXPECT().
				Register(gomock.Any(), "John Doe", "john@example.com", "Secret123!", dob).
				Return(tt.svcPair, tt.svcErr)

			r := newBagRequest(http.MethodPost, "/users/register", func(bag *validation.Bag) {
				bag.SetValue("name", "John Doe")
				bag.SetValue("email", "john@example.com")
				bag.SetValue("password", "Secret123!")
				bag.SetValue("date_of_birth", dob)
			})
			w := httptest.NewRecorder()

			NewRegisterHandler(mockSvc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Code)
				return
			}

			var resp RegisterResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, models.MsgRegisterSuccess, resp.Message)
			assert.Equal(t, "access", resp.Result.AccessToken)
			assert.Equal(t, "refresh", resp.Result.RefreshToken)
		})
	}
}

func TestRegisterHandler_NoBag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := httptest.NewRequest(http.MethodPost, "/users/register", nil)
	r = r.WithContext(context.Background())
	w := httptest.NewRecorder()

	NewRegisterHandler(NewMockRegisterer(ctrl)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
