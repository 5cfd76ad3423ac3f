package handler

import (
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/config"
	"github.com/suar-net/starter-be/internal/jsonutil"
	"github.com/suar-net/starter-be/internal/model"
)

var routeParam = regexp.MustCompile(`\{([^}:]+)(:[^}]*)?\}`)

var errDocsUnavailable = model.NewResponseError(http.StatusServiceUnavailable, "api docs are not available")

// skippedDocPrefixes are static file trees, not API operations.
var skippedDocPrefixes = []string{"/assets", "/public"}

// DocsHandler serves an OpenAPI document generated from the route tree.
type DocsHandler struct {
	project config.ProjectConfig
	logger  *zap.Logger

	mu     sync.RWMutex
	routes chi.Routes
}

func NewDocsHandler(project config.ProjectConfig, logger *zap.Logger) *DocsHandler {
	return &DocsHandler{project: project, logger: logger.Named("DocsHandler")}
}

// SetRoutes sets the tree to document. It is called once the full tree
// has been assembled, since the handler itself is part of it.
func (h *DocsHandler) SetRoutes(routes chi.Routes) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = routes
}

func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	routes := h.routes
	h.mu.RUnlock()

	if routes == nil {
		HandleError(w, r, errDocsUnavailable, h.logger)
		return
	}

	doc, err := BuildOpenAPI(h.project, routes)
	if err != nil {
		HandleError(w, r, err, h.logger)
		return
	}
	data, err := jsonutil.Marshal(doc)
	if err != nil {
		HandleError(w, r, err, h.logger)
		return
	}

	Format(w, r, FormatData{
		Plain: string(data),
		JSON:  doc,
	}, http.StatusOK)
}

// BuildOpenAPI describes every routed operation of routes.
func BuildOpenAPI(project config.ProjectConfig, routes chi.Routes) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       project.Name,
			Description: project.Description,
			Version:     project.Version,
		},
		Paths: openapi3.NewPaths(),
	}
	if project.License != "" {
		doc.Info.License = &openapi3.License{Name: project.License}
	}

	type operation struct {
		method  string
		pattern string
	}
	var ops []operation

	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		pattern, ok := docPattern(method, route)
		if ok {
			ops = append(ops, operation{method: method, pattern: pattern})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].pattern != ops[j].pattern {
			return ops[i].pattern < ops[j].pattern
		}
		return ops[i].method < ops[j].method
	})

	for _, op := range ops {
		item := doc.Paths.Value(op.pattern)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(op.pattern, item)
		}
		item.SetOperation(op.method, newOperation(op.method, op.pattern))
	}
	return doc, nil
}

// docPattern normalizes a walked chi route into an OpenAPI path, reporting
// false for routes that should not be documented.
func docPattern(method, route string) (string, bool) {
	if strings.Contains(route, "*") {
		return "", false
	}
	for _, prefix := range skippedDocPrefixes {
		if route == prefix || strings.HasPrefix(route, prefix+"/") {
			return "", false
		}
	}

	pattern := route
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	pattern = routeParam.ReplaceAllString(pattern, "{$1}")

	// PUT and DELETE without a key only exist to report the missing key.
	if (method == http.MethodPut || method == http.MethodDelete) && !strings.Contains(pattern, "{") {
		return "", false
	}
	return pattern, true
}

func newOperation(method, pattern string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = method + " " + pattern
	if segments := strings.Split(strings.Trim(pattern, "/"), "/"); segments[0] != "" {
		op.Tags = []string{segments[0]}
	}

	for _, match := range routeParam.FindAllStringSubmatch(pattern, -1) {
		op.AddParameter(openapi3.NewPathParameter(match[1]).WithSchema(openapi3.NewStringSchema()))
	}

	responses := []openapi3.NewResponsesOption{
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("OK")}),
		openapi3.WithStatus(http.StatusNotAcceptable, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Accept header not supported")}),
	}
	if strings.Contains(pattern, "{") || method == http.MethodPost {
		responses = append(responses, openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed")}))
	}
	op.Responses = openapi3.NewResponses(responses...)
	return op
}
