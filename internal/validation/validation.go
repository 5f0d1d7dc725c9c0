package validation

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// Source identifies where a field's raw value is read from.
type Source int

const (
	SourceBody Source = iota
	SourceHeader
	SourceParam
)

// Input provides raw request values per source. The HTTP adapter in the
// middlewares package implements it over the decoded JSON body, headers
// and route parameters.
type Input interface {
	Body(name string) (any, bool)
	Header(name string) string
	Param(name string) string
}

// Bag carries one request's validated state: normalized field values and
// side-channel attachments written by rules that passed. Attachments are
// retained even when later fields fail; downstream stages rely on that.
type Bag struct {
	values      map[string]any
	attachments map[string]any
}

// NewBag returns an empty bag for one request.
func NewBag() *Bag {
	return &Bag{
		values:      make(map[string]any),
		attachments: make(map[string]any),
	}
}

// Value returns the normalized value of a field that passed validation.
func (b *Bag) Value(field string) (any, bool) {
	v, ok := b.values[field]
	return v, ok
}

// SetValue stores a normalized field value directly. Validate does this
// for every field whose chain passed; tests seed bags with it.
func (b *Bag) SetValue(field string, v any) {
	b.values[field] = v
}

// String returns the normalized string value of a field, or "" if the
// field is absent or not a string.
func (b *Bag) String(field string) string {
	s, _ := b.values[field].(string)
	return s
}

// Attach records a side-channel value (decoded token payload, resolved
// user) for later rules and the handler.
func (b *Bag) Attach(key string, v any) {
	b.attachments[key] = v
}

// Attachment returns a previously attached side-channel value.
func (b *Bag) Attachment(key string) (any, bool) {
	v, ok := b.attachments[key]
	return v, ok
}

// Rule validates and normalizes a single field value. Rules compose in
// declared order; each receives the previous rule's output. A rule may
// read and write the request bag.
type Rule func(ctx context.Context, value any, bag *Bag) (any, error)

// StatusError aborts the whole pipeline with an explicit HTTP status and
// stable code instead of joining the aggregated 422 set. Token and
// existence rules use it.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// Errors aggregates every failing field of one pipeline run.
type Errors struct {
	Fields []models.FieldError
}

func (e *Errors) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// Field binds an ordered list of rules to a named request field.
// Optional fields short-circuit without error when absent.
type Field struct {
	Name     string
	Source   Source
	Optional bool
	Rules    []Rule
}

// Schema is an ordered validation pipeline over one request's fields.
type Schema struct {
	fields []Field
}

// NewSchema builds a schema; fields run in declared order.
func NewSchema(fields ...Field) *Schema {
	return &Schema{fields: fields}
}

// Validate runs every field chain in order.
//
// Failing rules stop their own field's chain but the remaining fields
// still run, so all field errors aggregate into one *Errors. A rule
// returning *StatusError aborts immediately with that error. Normalized
// values are stored in the bag only for fields whose whole chain passed;
// attachments made by passed rules persist regardless.
func (s *Schema) Validate(ctx context.Context, in Input, bag *Bag) error {
	agg := &Errors{}

	for _, f := range s.fields {
		raw, present := lookup(in, f)
		if !present && f.Optional {
			continue
		}

		value := raw
		var fieldErr *models.FieldError
		for _, rule := range f.Rules {
			next, err := rule(ctx, value, bag)
			if err != nil {
				var statusErr *StatusError
				if errors.As(err, &statusErr) {
					return statusErr
				}
				fieldErr = &models.FieldError{Field: f.Name, Message: err.Error()}
				break
			}
			value = next
		}

		if fieldErr != nil {
			agg.Fields = append(agg.Fields, *fieldErr)
			continue
		}
		bag.values[f.Name] = value
	}

	if len(agg.Fields) > 0 {
		return agg
	}
	return nil
}

func lookup(in Input, f Field) (any, bool) {
	switch f.Source {
	case SourceHeader:
		v := in.Header(f.Name)
		return v, v != ""
	case SourceParam:
		v := in.Param(f.Name)
		return v, v != ""
	default:
		return in.Body(f.Name)
	}
}

// EscalateUnavailable wraps an infrastructure failure so no store detail
// leaks to the client.
func EscalateUnavailable() *StatusError {
	return &StatusError{
		Status:  http.StatusInternalServerError,
		Code:    models.CodeInternalError,
		Message: "Internal server error",
	}
}
