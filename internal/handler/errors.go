package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/model"
)

type statusError interface {
	error
	StatusCode() int
}

type namedError interface {
	ErrorName() string
}

type errorEntry struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type errorsResponse struct {
	Errors []any `json:"errors"`
	model.RequestDetails
}

// RespondWithErrors writes errs with status. Errors carrying their own
// status are encoded as they are; anything else is reduced to name and message.
func RespondWithErrors(w http.ResponseWriter, r *http.Request, errs []error, status int) error {
	lines := make([]string, 0, len(errs))
	entries := make([]any, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		name := errorName(err)
		lines = append(lines, fmt.Sprintf("[%s]: %s", name, err.Error()))

		var se statusError
		if errors.As(err, &se) {
			entries = append(entries, se)
			continue
		}
		entries = append(entries, errorEntry{Name: name, Message: err.Error()})
	}

	return Format(w, r, FormatData{
		Plain: strings.Join(lines, "\n"),
		JSON: errorsResponse{
			Errors:         entries,
			RequestDetails: NewRequestDetails(r),
		},
	}, status)
}

// HandleError answers with the status an error carries, or as an
// unexpected routing error when it carries none.
func HandleError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	var se statusError
	if errors.As(err, &se) {
		RespondWithErrors(w, r, []error{se}, se.StatusCode())
		return
	}
	RespondRoutingError(w, r, err, logger)
}

func errorName(err error) string {
	var ne namedError
	if errors.As(err, &ne) {
		return ne.ErrorName()
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		return "Error"
	}
	return name
}
