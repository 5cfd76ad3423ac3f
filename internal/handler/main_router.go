package handler

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/config"
	"github.com/suar-net/starter-be/internal/model"
)

type MainRouterDeps struct {
	Project config.ProjectConfig
	Paths   config.PathsConfig
	V1      http.Handler
	Health  http.Handler
	Metrics http.Handler
}

// MainRouter is the top of the route tree: the landing page, static files,
// the versioned API and the 404/501 fallbacks.
type MainRouter struct {
	*BaseRouter
	deps MainRouterDeps
}

type landingResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	model.RequestDetails
}

func NewMainRouter(deps MainRouterDeps, logger *zap.Logger, opts ...RouterOption) *MainRouter {
	m := &MainRouter{deps: deps}
	m.BaseRouter = NewBaseRouter(m, Validators{}, logger, opts...)

	r := m.Router()
	r.NotFound(m.fallback)
	r.MethodNotAllowed(m.NotImplementedFallback)
	return m
}

func (m *MainRouter) GetAll(w http.ResponseWriter, r *http.Request) {
	m.Format(w, r, FormatData{
		Plain: fmt.Sprintf("You are on %s in version '%s'", m.deps.Project.Name, m.deps.Project.Version),
		JSON: landingResponse{
			Name:           m.deps.Project.Name,
			Version:        m.deps.Project.Version,
			RequestDetails: m.RequestDetails(r),
		},
	}, http.StatusOK)
}

// GetByKey answers 404: the top level holds no keyed resources.
func (m *MainRouter) GetByKey(w http.ResponseWriter, r *http.Request) {
	m.PageNotFound(w, r)
}

func (m *MainRouter) Routes(r chi.Router) {
	m.static(r, "/assets", m.deps.Paths.Assets)
	m.static(r, "/public", m.deps.Paths.Public)

	if m.deps.V1 != nil {
		r.Mount("/v1", m.deps.V1)
	}
	if m.deps.Health != nil {
		r.Method(http.MethodGet, "/healthz", m.deps.Health)
	}
	if m.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", m.deps.Metrics)
	}
}

// static serves files under dir at prefix. Missing files and directories go
// to the fallback handlers instead of the file server's own 404.
func (m *MainRouter) static(r chi.Router, prefix, dir string) {
	if dir == "" {
		return
	}
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))

	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		name := path.Clean("/" + strings.TrimPrefix(req.URL.Path, prefix))
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || info.IsDir() {
			m.fallback(w, req)
			return
		}
		files.ServeHTTP(w, req)
	})
}

func (m *MainRouter) fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		m.PageNotFound(w, r)
		return
	}
	m.NotImplementedFallback(w, r)
}
