package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/suar-net/starter-be/internal/model"
)

const (
	LocationParams  = "params"
	LocationQuery   = "query"
	LocationBody    = "body"
	LocationHeaders = "headers"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Rule checks one aspect of a request and reports at most one failure.
type Rule interface {
	Check(r *http.Request) *model.ValidationFailure
}

type RuleFunc func(r *http.Request) *model.ValidationFailure

func (f RuleFunc) Check(r *http.Request) *model.ValidationFailure {
	return f(r)
}

// FieldRule validates a single named request field with validator tags.
type FieldRule struct {
	location string
	name     string
	trim     bool
	tags     string
	message  string
}

func Param(name string) FieldRule  { return FieldRule{location: LocationParams, name: name} }
func Query(name string) FieldRule  { return FieldRule{location: LocationQuery, name: name} }
func Body(name string) FieldRule   { return FieldRule{location: LocationBody, name: name} }
func Header(name string) FieldRule { return FieldRule{location: LocationHeaders, name: name} }

// Trim strips surrounding whitespace from string values before checking.
func (f FieldRule) Trim() FieldRule {
	f.trim = true
	return f
}

// Tags sets the validator tags, e.g. "required,max=64".
func (f FieldRule) Tags(tags string) FieldRule {
	f.tags = tags
	return f
}

// WithMessage replaces the message derived from the failing tag.
func (f FieldRule) WithMessage(msg string) FieldRule {
	f.message = msg
	return f
}

func (f FieldRule) Check(r *http.Request) *model.ValidationFailure {
	if f.tags == "" {
		return nil
	}

	value := f.lookup(r)
	if s, ok := value.(string); ok && f.trim {
		value = strings.TrimSpace(s)
	}

	badType, err := checkVar(value, f.tags)
	if err == nil && !badType {
		return nil
	}

	msg := f.message
	switch {
	case msg != "":
	case badType:
		msg = fmt.Sprintf("Field '%s' has an invalid type", f.name)
	default:
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			msg = tagMessage(f.name, fieldErrs[0].Tag(), fieldErrs[0].Param())
		} else {
			msg = fmt.Sprintf("Field '%s' is invalid", f.name)
		}
	}

	failure := &model.ValidationFailure{Location: f.location, Param: f.name, Msg: msg}
	if s, ok := value.(string); !ok || s != "" {
		failure.Value = value
	}
	return failure
}

// checkVar runs tags against value. Tags that do not apply to the value's
// kind (max on a bool) report badType; any other panic is a broken rule and
// propagates.
func checkVar(value any, tags string) (badType bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			if msg, ok := p.(string); ok && strings.HasPrefix(msg, "Bad field type") {
				badType = true
				return
			}
			panic(p)
		}
	}()
	return false, validate.Var(value, tags)
}

// lookup returns the raw field value. Missing fields read as "".
func (f FieldRule) lookup(r *http.Request) any {
	switch f.location {
	case LocationParams:
		return chi.URLParam(r, f.name)
	case LocationQuery:
		return r.URL.Query().Get(f.name)
	case LocationHeaders:
		return r.Header.Get(f.name)
	case LocationBody:
		if v, ok := BodyFromContext(r.Context())[f.name]; ok && v != nil {
			return v
		}
	}
	return ""
}

func tagMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("Field '%s' is required", field)
	case "url":
		return fmt.Sprintf("Field '%s' must be a valid URL", field)
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email address", field)
	case "ulid":
		return fmt.Sprintf("Field '%s' must be a valid ULID", field)
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of [%s]", field, param)
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("Field '%s' must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("Field '%s' must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, tag)
	}
}

// KeyExists requires a non-blank "key" path parameter.
func KeyExists() Rule {
	return Param("key").Trim().Tags("required")
}

// Validators holds the rule lists applied per BaseRouter operation. A nil
// Put or Delete list falls back to KeyExists; an empty non-nil list disables
// validation.
type Validators struct {
	Get    []Rule
	Post   []Rule
	Put    []Rule
	Delete []Rule
}

func (v Validators) withDefaults() Validators {
	if v.Put == nil {
		v.Put = []Rule{KeyExists()}
	}
	if v.Delete == nil {
		v.Delete = []Rule{KeyExists()}
	}
	return v
}

// Validate runs every rule concurrently and answers 400 with all failures,
// or passes the request on when none failed.
func Validate(rules ...Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(rules) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if failures := runRules(r, rules); len(failures) > 0 {
				RespondWithValidationFailures(w, r, failures)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func runRules(r *http.Request, rules []Rule) []model.ValidationFailure {
	results := make([]*model.ValidationFailure, len(rules))
	panics := make([]any, len(rules))

	var wg sync.WaitGroup
	for i, rule := range rules {
		i, rule := i, rule
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					panics[i] = p
				}
			}()
			results[i] = rule.Check(r)
		}()
	}
	wg.Wait()

	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}

	var failures []model.ValidationFailure
	for _, res := range results {
		if res != nil {
			failures = append(failures, *res)
		}
	}
	return failures
}

type validationResponse struct {
	Errors []model.ValidationFailure `json:"errors"`
}

// RespondWithValidationFailures answers 400 listing every failure.
func RespondWithValidationFailures(w http.ResponseWriter, r *http.Request, failures []model.ValidationFailure) error {
	lines := make([]string, len(failures))
	for i, f := range failures {
		lines[i] = fmt.Sprintf("%s[%s]: %s", f.Location, f.Param, f.Msg)
	}
	return Format(w, r, FormatData{
		Plain: strings.Join(lines, "\n"),
		JSON:  validationResponse{Errors: failures},
	}, http.StatusBadRequest)
}

// ValidateStruct checks v against its validate tags and reports each
// violation as a body failure.
func ValidateStruct(v any) []model.ValidationFailure {
	return StructFailures(validate.Struct(v))
}

func StructFailures(err error) []model.ValidationFailure {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []model.ValidationFailure{{Location: LocationBody, Msg: err.Error()}}
	}
	failures := make([]model.ValidationFailure, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		failure := model.ValidationFailure{
			Location: LocationBody,
			Param:    e.Field(),
			Msg:      tagMessage(e.Field(), e.Tag(), e.Param()),
		}
		if s, ok := e.Value().(string); !ok || s != "" {
			failure.Value = e.Value()
		}
		failures = append(failures, failure)
	}
	return failures
}
