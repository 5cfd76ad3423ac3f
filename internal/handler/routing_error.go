package handler

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const routingErrorMessage = "Something went wrong"

// RoutingError recovers panics from downstream handlers and answers them
// with an opaque 500. A response already under way is left as is.
func RoutingError(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			w := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				logger.Debug("recovered panic", zap.Any("value", rec), zap.ByteString("stack", debug.Stack()))
				RespondRoutingError(w, r, err, logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondRoutingError logs err and answers 500 without exposing it. Requests
// whose Accept matches nothing still get the plain text body. When w already
// carries a status the error is only logged.
func RespondRoutingError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if err == nil {
		err = errors.New("unknown error")
	}
	logger.Error(fmt.Sprintf("general routing error [%s]", err.Error()))
	logger.Debug("routing error detail",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("type", fmt.Sprintf("%T", err)),
		zap.String("detail", fmt.Sprintf("%+v", err)),
	)

	if ww, ok := w.(middleware.WrapResponseWriter); ok && ww.Status() != 0 {
		logger.Debug("response already started", zap.Int("status", ww.Status()), zap.Int("bytes", ww.BytesWritten()))
		return
	}

	plain := func(w http.ResponseWriter, status int) error {
		return respondWithText(w, status, routingErrorMessage)
	}
	formatWithFallback(w, r, FormatData{
		Plain: routingErrorMessage,
		JSON: errorsResponse{
			Errors:         []any{errorEntry{Name: "RoutingError", Message: routingErrorMessage}},
			RequestDetails: NewRequestDetails(r),
		},
	}, http.StatusInternalServerError, plain)
}
