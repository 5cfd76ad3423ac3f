package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(v)
	})
}

func TestRoutingError_RecoversWithOpaqueResponse(t *testing.T) {
	logger, logs := newObservedLogger()
	h := RoutingError(logger)(panicking(errors.New("secret connection string leaked")))

	rec := serve(h, newRequest(http.MethodGet, "http://example.com/boom", "application/json", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	body := decodeJSON(t, rec)
	assert.Equal(t, []any{map[string]any{"name": "RoutingError", "message": "Something went wrong"}}, body["errors"])
	assert.Equal(t, "http://example.com/boom", body["url"])

	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorsLogged, 1)
	assert.Equal(t, "general routing error [secret connection string leaked]", errorsLogged[0].Message)
	assert.NotZero(t, logs.FilterLevelExact(zapcore.DebugLevel).Len())
}

func TestRoutingError_UnmatchedAcceptFallsBackToPlain(t *testing.T) {
	logger, _ := newObservedLogger()
	h := RoutingError(logger)(panicking("not an error value"))

	rec := serve(h, newRequest(http.MethodGet, "/", "image/png", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", rec.Body.String())
}

func TestRoutingError_PassesThrough(t *testing.T) {
	logger, logs := newObservedLogger()
	rec := serve(RoutingError(logger)(okHandler), newRequest(http.MethodGet, "/", "", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, logs.Len())
}

func TestRoutingError_RepanicsAbortHandler(t *testing.T) {
	logger, _ := newObservedLogger()
	h := RoutingError(logger)(panicking(http.ErrAbortHandler))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(h, newRequest(http.MethodGet, "/", "", nil))
	})
}

func TestRoutingError_StartedResponseIsNotRewritten(t *testing.T) {
	logger, logs := newObservedLogger()
	h := RoutingError(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late failure")
	}))

	rec := serve(h, newRequest(http.MethodGet, "/", "application/json", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	require.Len(t, logs.FilterMessage("general routing error [late failure]").All(), 1)
	assert.Len(t, logs.FilterMessage("response already started").All(), 1)
}
