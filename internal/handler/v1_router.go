package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/model"
)

// V1Router is the root of the first API version.
type V1Router struct {
	*BaseRouter
	items http.Handler
	docs  http.Handler
}

type apiResponse struct {
	API string `json:"api"`
	model.RequestDetails
}

func NewV1Router(items, docs http.Handler, logger *zap.Logger, opts ...RouterOption) *V1Router {
	v := &V1Router{items: items, docs: docs}
	v.BaseRouter = NewBaseRouter(v, Validators{}, logger, opts...)
	return v
}

func (v *V1Router) GetAll(w http.ResponseWriter, r *http.Request) {
	v.Format(w, r, FormatData{
		Plain: "API V1",
		JSON:  apiResponse{API: "V1", RequestDetails: v.RequestDetails(r)},
	}, http.StatusOK)
}

// GetByKey answers 404: the API root holds no keyed resources.
func (v *V1Router) GetByKey(w http.ResponseWriter, r *http.Request) {
	v.PageNotFound(w, r)
}

func (v *V1Router) Routes(r chi.Router) {
	if v.items != nil {
		r.Mount("/items", v.items)
	}
	if v.docs != nil {
		r.Method(http.MethodGet, "/api-docs", v.docs)
	}
}
