package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, name, email, password string, dateOfBirth time.Time) (*models.TokenPair, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Name
	// required: true
	// default: John Doe
	Name string `json:"name"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: Secret123!
	Password string `json:"password"`

	// Confirm password, must match password
	// required: true
	// default: Secret123!
	ConfirmPassword string `json:"confirm_password"`

	// Date of birth in ISO8601
	// required: true
	// default: 2000-01-01T00:00:00.000Z
	DateOfBirth string `json:"date_of_birth"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Success message
	// default: Register success
	Message string `json:"message"`

	// Issued token pair
	Result *models.TokenPair `json:"result"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates an unverified account, issues a session token pair and sends the verification email.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.RegisterResponse "User successfully registered"
// @Failure 400 {object} models.ErrorResponse "Email already exists"
// @Failure 422 {object} models.ValidationErrorResponse "Validation error"
// @Router /users/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		bag := middlewares.GetBag(ctx)
		if bag == nil {
			writeInternalError(w)
			return
		}

		dobValue, _ := bag.Value("date_of_birth")
		dob, ok := dobValue.(time.Time)
		if !ok {
			writeInternalError(w)
			return
		}

		pair, err := svc.Register(ctx, bag.String("name"), bag.String("email"), bag.String("password"), dob)
		if err != nil {
			switch err {
			case services.ErrEmailAlreadyExists:
				writeError(w, http.StatusBadRequest, models.MsgEmailAlreadyExists, models.CodeEmailAlreadyExists)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			Message: models.MsgRegisterSuccess,
			Result:  pair,
		})
	}
}
