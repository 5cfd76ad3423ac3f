package handler

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/model"
)

// Capabilities a router can provide. Any operation the owner does not
// implement answers 501.
type (
	Lister interface {
		GetAll(w http.ResponseWriter, r *http.Request)
	}
	KeyGetter interface {
		GetByKey(w http.ResponseWriter, r *http.Request)
	}
	Creator interface {
		Post(w http.ResponseWriter, r *http.Request)
	}
	Updater interface {
		Put(w http.ResponseWriter, r *http.Request)
	}
	Deleter interface {
		Delete(w http.ResponseWriter, r *http.Request)
	}
	// RouteRegistrar adds routes before the keyed ones, so literal paths
	// are never shadowed by /{key}.
	RouteRegistrar interface {
		Routes(r chi.Router)
	}
)

type RouterOption func(*routerOptions)

type routerOptions struct {
	middlewares []func(http.Handler) http.Handler
}

// WithMiddlewares applies mw to every route of the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) RouterOption {
	return func(o *routerOptions) {
		o.middlewares = append(o.middlewares, mw...)
	}
}

// BaseRouter mounts the list/get/create/update/delete routes of its owner on
// a chi router.
type BaseRouter struct {
	name       string
	router     *chi.Mux
	logger     *zap.Logger
	validators Validators
}

// NewBaseRouter builds the routes for owner. The owner's handlers are bound
// here, so it must be fully configured before the call.
func NewBaseRouter(owner any, validators Validators, logger *zap.Logger, opts ...RouterOption) *BaseRouter {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	name := typeName(owner)
	b := &BaseRouter{
		name:       name,
		router:     chi.NewRouter(),
		logger:     logger.Named(name),
		validators: validators.withDefaults(),
	}
	b.router.Use(o.middlewares...)
	b.mount(owner)
	return b
}

func (b *BaseRouter) mount(owner any) {
	getAll, getByKey := b.NotImplemented, b.NotImplemented
	post, put, del := b.NotImplemented, b.NotImplemented, b.NotImplemented
	if h, ok := owner.(Lister); ok {
		getAll = h.GetAll
	}
	if h, ok := owner.(KeyGetter); ok {
		getByKey = h.GetByKey
	}
	if h, ok := owner.(Creator); ok {
		post = h.Post
	}
	if h, ok := owner.(Updater); ok {
		put = h.Put
	}
	if h, ok := owner.(Deleter); ok {
		del = h.Delete
	}

	r := b.router
	v := b.validators

	r.With(Validate(v.Get...)).Get("/", getAll)
	r.With(Validate(v.Post...)).Post("/", post)

	if reg, ok := owner.(RouteRegistrar); ok {
		reg.Routes(r)
	}

	r.With(Validate(v.Get...)).Get("/{key}", getByKey)

	// The empty-key variants exist so a missing key fails validation
	// instead of falling through to 405.
	r.With(Validate(v.Put...)).Put("/", put)
	r.With(Validate(v.Put...)).Put("/{key}", put)
	r.With(Validate(v.Delete...)).Delete("/", del)
	r.With(Validate(v.Delete...)).Delete("/{key}", del)
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "Router"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (b *BaseRouter) Name() string {
	return b.name
}

func (b *BaseRouter) Router() *chi.Mux {
	return b.router
}

func (b *BaseRouter) Logger() *zap.Logger {
	return b.logger
}

func (b *BaseRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Format writes data negotiated against the request's Accept header and
// logs the chosen representation and write failures.
func (b *BaseRouter) Format(w http.ResponseWriter, r *http.Request, data FormatData, status int) {
	if ce := b.logger.Check(zap.DebugLevel, "negotiated response"); ce != nil {
		if _, mediaType, ok := Negotiate(r, data); ok {
			ce.Write(zap.String("path", r.URL.Path), zap.String("content_type", mediaType), zap.Int("status", status))
		} else {
			ce.Write(zap.String("path", r.URL.Path), zap.String("accept", r.Header.Get("Accept")), zap.Int("status", http.StatusNotAcceptable))
		}
	}
	if err := Format(w, r, data, status); err != nil {
		b.logger.Warn("failed to write response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (b *BaseRouter) RequestDetails(r *http.Request) model.RequestDetails {
	return NewRequestDetails(r)
}

// NotImplemented answers 501 naming the router, method and path.
func (b *BaseRouter) NotImplemented(w http.ResponseWriter, r *http.Request) {
	msg := fmt.Sprintf("%s has not implemented %s on %s", b.name, r.Method, r.URL.Path)
	b.Format(w, r, FormatData{
		Plain: msg,
		JSON: errorsResponse{
			Errors:         []any{model.NewResponseError(http.StatusNotImplemented, msg)},
			RequestDetails: NewRequestDetails(r),
		},
	}, http.StatusNotImplemented)
}

// PageNotFound answers 404.
func (b *BaseRouter) PageNotFound(w http.ResponseWriter, r *http.Request) {
	b.debugTried(r)
	b.Format(w, r, FormatData{
		Plain: "404 - page not found",
		JSON: errorsResponse{
			Errors:         []any{model.NewResponseError(http.StatusNotFound, "page not found")},
			RequestDetails: NewRequestDetails(r),
		},
	}, http.StatusNotFound)
}

// NotImplementedFallback answers 501 for requests no route accepts.
func (b *BaseRouter) NotImplementedFallback(w http.ResponseWriter, r *http.Request) {
	b.debugTried(r)
	b.Format(w, r, FormatData{
		Plain: "501 - not implemented",
		JSON: errorsResponse{
			Errors:         []any{model.NewResponseError(http.StatusNotImplemented, "not implemented")},
			RequestDetails: NewRequestDetails(r),
		},
	}, http.StatusNotImplemented)
}

func (b *BaseRouter) debugTried(r *http.Request) {
	b.logger.Debug(fmt.Sprintf("%s tried: %s on %s", r.RemoteAddr, r.Method, r.URL.Path))
}
