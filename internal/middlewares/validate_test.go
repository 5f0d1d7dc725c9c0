package middlewares

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

func TestValidate_InvalidJSONBody(t *testing.T) {
	schema := validation.NewSchema(validation.Field{
		Name:   "name",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{validation.Required("Name is required")},
	})

	w, captured := runMiddleware(Validate(schema), jsonRequest("/users/register", `{not json`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, captured)

	resp := decodeValidationError(t, w)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "body", resp.Errors[0].Field)
}

func TestValidate_BodyIsRestoredForNextReader(t *testing.T) {
	schema := validation.NewSchema(validation.Field{
		Name:   "name",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{validation.Required("Name is required")},
	})

	w, captured := runMiddleware(Validate(schema), jsonRequest("/users/register", `{"name": "John"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)

	raw, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "John"}`, string(raw))
}

// Two stacked validators must share one bag: an attachment made by the
// first stays visible to rules of the second and to the handler.
func TestValidate_ChainedValidatorsShareOneBag(t *testing.T) {
	attachRule := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		bag.Attach("seen_by_first", value)
		return value, nil
	}
	first := Validate(validation.NewSchema(validation.Field{
		Name:   "a",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{validation.IsString("A must be a string"), attachRule},
	}))
	second := Validate(validation.NewSchema(validation.Field{
		Name:   "b",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{validation.IsString("B must be a string")},
	}))

	chained := func(next http.Handler) http.Handler {
		return first(second(next))
	}
	w, captured := runMiddleware(chained, jsonRequest("/users/logout", `{"a": "one", "b": "two"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)

	bag := GetBag(captured.Context())
	require.NotNil(t, bag)
	assert.Equal(t, "one", bag.String("a"))
	assert.Equal(t, "two", bag.String("b"))

	attached, ok := bag.Attachment("seen_by_first")
	require.True(t, ok)
	assert.Equal(t, "one", attached)
}
