package handler

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"github.com/suar-net/starter-be/internal/model"
)

// CORS rejects requests from origins outside the whitelist with a 403
// CorsError and adds the CORS headers for the rest.
type CORS struct {
	whitelist []string
	headers   func(http.Handler) http.Handler
}

// NewCORS builds the CORS policy. A "*" entry allows every origin.
func NewCORS(whitelist, methods []string) *CORS {
	c := &CORS{whitelist: whitelist}
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodHead}
	}
	c.headers = cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return c.Allowed(origin)
		},
		AllowedMethods:   methods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c
}

func (c *CORS) Allowed(origin string) bool {
	return slices.Contains(c.whitelist, "*") || slices.Contains(c.whitelist, origin)
}

func (c *CORS) Handler(next http.Handler) http.Handler {
	withHeaders := c.headers(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && !c.Allowed(origin) {
			RespondWithErrors(w, r, []error{model.NewCorsError(origin)}, http.StatusForbidden)
			return
		}
		withHeaders.ServeHTTP(w, r)
	})
}
