package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// TokenParser verifies a signed token against a purpose-scoped secret.
type TokenParser interface {
	Parse(ctx context.Context, tokenString string, purpose models.TokenPurpose) (*models.TokenPayload, error)
}

// UserReader defines the user lookups validation rules need.
type UserReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// RefreshTokenReader checks that a refresh token string is still on record.
type RefreshTokenReader interface {
	GetByToken(ctx context.Context, token string) (*models.RefreshTokenDB, error)
}

// httpInput adapts an HTTP request to the validation.Input contract.
type httpInput struct {
	body map[string]any
	r    *http.Request
}

func (in *httpInput) Body(name string) (any, bool) {
	v, ok := in.body[name]
	return v, ok
}

func (in *httpInput) Header(name string) string {
	return in.r.Header.Get(name)
}

func (in *httpInput) Param(name string) string {
	return chi.URLParam(in.r, name)
}

// Validate returns a middleware that runs the schema against the request
// before the next handler. Field errors aggregate into a 422 response;
// a StatusError rule failure is written with its own status and code.
//
// Validators chain: a later Validate reuses the bag an earlier one put in
// the context, so side-channel attachments stay visible downstream. The
// request body is restored after reading so chained validators and
// handlers can read it again.
func Validate(schema *validation.Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := map[string]any{}
			if r.Body != nil {
				raw, err := io.ReadAll(r.Body)
				if err != nil {
					writeStatusError(w, validation.EscalateUnavailable())
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(raw))
				if len(raw) > 0 {
					if err := json.Unmarshal(raw, &body); err != nil {
						writeValidationError(w, &validation.Errors{Fields: []models.FieldError{
							{Field: "body", Message: "Request body must be valid JSON"},
						}})
						return
					}
				}
			}

			ctx := r.Context()
			bag := GetBag(ctx)
			if bag == nil {
				bag = validation.NewBag()
				ctx = WithBag(ctx, bag)
			}

			in := &httpInput{body: body, r: r}
			if err := schema.Validate(ctx, in, bag); err != nil {
				var statusErr *validation.StatusError
				if errors.As(err, &statusErr) {
					writeStatusError(w, statusErr)
					return
				}
				var agg *validation.Errors
				if errors.As(err, &agg) {
					writeValidationError(w, agg)
					return
				}
				logger.Log.Errorw("unexpected validation failure", "err", err)
				writeStatusError(w, validation.EscalateUnavailable())
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeStatusError(w http.ResponseWriter, err *validation.StatusError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: err.Message,
		Code:  err.Code,
	})
}

func writeValidationError(w http.ResponseWriter, agg *validation.Errors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(models.ValidationErrorResponse{
		Message: models.MsgValidationError,
		Code:    models.CodeValidationError,
		Errors:  agg.Fields,
	})
}
