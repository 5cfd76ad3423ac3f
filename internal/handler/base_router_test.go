package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptyRouter struct {
	*BaseRouter
}

func newEmptyRouter(validators Validators, opts ...RouterOption) *emptyRouter {
	e := &emptyRouter{}
	e.BaseRouter = NewBaseRouter(e, validators, zap.NewNop(), opts...)
	return e
}

type widgetRouter struct {
	*BaseRouter
	updated []string
	deleted []string
}

func newWidgetRouter(logger *zap.Logger) *widgetRouter {
	w := &widgetRouter{}
	w.BaseRouter = NewBaseRouter(w, Validators{}, logger)
	return w
}

func (h *widgetRouter) Routes(r chi.Router) {
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		h.Format(w, r, FormatData{Plain: "search"}, http.StatusOK)
	})
}

func (h *widgetRouter) GetByKey(w http.ResponseWriter, r *http.Request) {
	h.Format(w, r, FormatData{Plain: "widget " + chi.URLParam(r, "key")}, http.StatusOK)
}

func (h *widgetRouter) Put(w http.ResponseWriter, r *http.Request) {
	h.updated = append(h.updated, chi.URLParam(r, "key"))
	w.WriteHeader(http.StatusOK)
}

func (h *widgetRouter) Delete(w http.ResponseWriter, r *http.Request) {
	h.deleted = append(h.deleted, chi.URLParam(r, "key"))
	w.WriteHeader(http.StatusOK)
}

func mounted(prefix string, h http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Mount(prefix, h)
	return r
}

func TestBaseRouter_UnimplementedOperationsAre501(t *testing.T) {
	root := mounted("/things", newEmptyRouter(Validators{}).Router())

	tests := []struct {
		method string
		target string
		path   string
	}{
		{http.MethodGet, "/things", "/things"},
		{http.MethodPost, "/things", "/things"},
		{http.MethodGet, "/things/abc", "/things/abc"},
		{http.MethodPut, "/things/abc", "/things/abc"},
		{http.MethodDelete, "/things/abc", "/things/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := serve(root, newRequest(tt.method, tt.target, "application/json", nil))
			require.Equal(t, http.StatusNotImplemented, rec.Code)

			first := firstError(t, decodeJSON(t, rec))
			assert.Equal(t, "emptyRouter has not implemented "+tt.method+" on "+tt.path, first["message"])
			assert.Equal(t, float64(http.StatusNotImplemented), first["status"])
		})
	}
}

func TestBaseRouter_PlainAndJSONCarryTheSameMessage(t *testing.T) {
	root := mounted("/things", newEmptyRouter(Validators{}).Router())

	plain := serve(root, newRequest(http.MethodPut, "/things/abc", "text/plain", nil))
	asJSON := serve(root, newRequest(http.MethodPut, "/things/abc", "application/json", nil))

	assert.Equal(t, plain.Code, asJSON.Code)
	assert.Equal(t, plain.Body.String(), firstError(t, decodeJSON(t, asJSON))["message"])
}

func TestBaseRouter_EmptyKeyIsRejected(t *testing.T) {
	h := newWidgetRouter(zap.NewNop())
	root := mounted("/widgets", h.Router())

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		for _, target := range []string{"/widgets/", "/widgets/%20%20"} {
			rec := serve(root, newRequest(method, target, "application/json", nil))
			require.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", method, target)

			first := firstError(t, decodeJSON(t, rec))
			assert.Equal(t, "key", first["param"])
			assert.Equal(t, LocationParams, first["location"])
		}
	}
	assert.Empty(t, h.updated)
	assert.Empty(t, h.deleted)

	assert.Equal(t, http.StatusOK, serve(root, newRequest(http.MethodPut, "/widgets/abc", "", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(root, newRequest(http.MethodDelete, "/widgets/abc", "", nil)).Code)
	assert.Equal(t, []string{"abc"}, h.updated)
	assert.Equal(t, []string{"abc"}, h.deleted)
}

func TestBaseRouter_ExplicitEmptyValidatorsSkipKeyCheck(t *testing.T) {
	root := mounted("/things", newEmptyRouter(Validators{Put: []Rule{}}).Router())

	assert.Equal(t, http.StatusNotImplemented, serve(root, newRequest(http.MethodPut, "/things/", "", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(root, newRequest(http.MethodDelete, "/things/", "", nil)).Code)
}

func TestBaseRouter_HookRoutesAreNotShadowed(t *testing.T) {
	root := mounted("/widgets", newWidgetRouter(zap.NewNop()).Router())

	rec := serve(root, newRequest(http.MethodGet, "/widgets/search", "", nil))
	assert.Equal(t, "search", rec.Body.String())

	rec = serve(root, newRequest(http.MethodGet, "/widgets/gear", "", nil))
	assert.Equal(t, "widget gear", rec.Body.String())
}

func TestBaseRouter_Middlewares(t *testing.T) {
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Router", "tagged")
			next.ServeHTTP(w, r)
		})
	}
	e := newEmptyRouter(Validators{}, WithMiddlewares(tag))

	rec := serve(e, newRequest(http.MethodGet, "/", "", nil))
	assert.Equal(t, "tagged", rec.Header().Get("X-Router"))
}

func TestBaseRouter_NameAndLogger(t *testing.T) {
	logger, logs := newObservedLogger()
	h := newWidgetRouter(logger)
	assert.Equal(t, "widgetRouter", h.Name())

	rec := serve(h, newRequest(http.MethodGet, "/", "text/plain", nil))
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "widgetRouter has not implemented GET on /", rec.Body.String())

	h.PageNotFound(httptest.NewRecorder(), newRequest(http.MethodGet, "/missing", "", nil))
	entries := logs.FilterMessage("192.0.2.1:1234 tried: GET on /missing").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "widgetRouter", entries[0].LoggerName)
}

func TestBaseRouter_FormatLogsNegotiatedType(t *testing.T) {
	logger, logs := newObservedLogger()
	h := newWidgetRouter(logger)

	serve(h, newRequest(http.MethodGet, "/abc", "application/json;q=0.5, text/plain", nil))
	serve(h, newRequest(http.MethodGet, "/abc", "image/png", nil))

	entries := logs.FilterMessage("negotiated response").All()
	require.Len(t, entries, 2)
	assert.Equal(t, ContentTypePlain, entries[0].ContextMap()["content_type"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "image/png", entries[1].ContextMap()["accept"])
	assert.Equal(t, int64(http.StatusNotAcceptable), entries[1].ContextMap()["status"])
}
