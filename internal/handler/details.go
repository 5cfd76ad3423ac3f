package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/suar-net/starter-be/internal/jsonutil"
	"github.com/suar-net/starter-be/internal/model"
)

const maxBodyBytes = 1 << 20

type bodyContextKey struct{}

// ParseBody decodes JSON objects and url-encoded forms once per request and
// keeps the result in the request context. The raw body is restored so
// handlers can read it again.
func ParseBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType != ContentTypeJSON && mediaType != "application/x-www-form-urlencoded" {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		r.Body.Close()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				RespondWithErrors(w, r, []error{model.NewResponseError(http.StatusRequestEntityTooLarge, "request body too large")}, http.StatusRequestEntityTooLarge)
				return
			}
			RespondWithErrors(w, r, []error{model.NewResponseError(http.StatusBadRequest, "failed to read request body")}, http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))

		body, err := decodeBody(mediaType, raw)
		if err != nil {
			RespondWithErrors(w, r, []error{model.NewResponseError(http.StatusBadRequest, "malformed request body")}, http.StatusBadRequest)
			return
		}
		if len(body) > 0 {
			r = r.WithContext(context.WithValue(r.Context(), bodyContextKey{}, body))
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(mediaType string, raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if mediaType == ContentTypeJSON {
		var decoded any
		if err := jsonutil.Unmarshal(raw, &decoded); err != nil {
			return nil, err
		}
		obj, _ := decoded.(map[string]any)
		return obj, nil
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}
	return flattenValues(values), nil
}

// BodyFromContext returns the parsed request body, or nil.
func BodyFromContext(ctx context.Context) map[string]any {
	body, _ := ctx.Value(bodyContextKey{}).(map[string]any)
	return body
}

// NewRequestDetails describes r for inclusion in a response.
func NewRequestDetails(r *http.Request) model.RequestDetails {
	details := model.RequestDetails{
		URL:       requestURL(r),
		Method:    r.Method,
		Timestamp: time.Now().UTC().Format(http.TimeFormat),
	}
	if body := BodyFromContext(r.Context()); len(body) > 0 {
		details.Body = body
	}
	if query := flattenValues(r.URL.Query()); len(query) > 0 {
		details.Query = query
	}
	return details
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.Path
}

// flattenValues keeps single values as strings and repeated ones as lists.
func flattenValues(values url.Values) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			out[k] = v
		}
	}
	return out
}
