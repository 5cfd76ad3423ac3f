package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/model"
	"github.com/suar-net/starter-be/internal/service"
)

// ItemsRouter exposes CRUD and search over items.
type ItemsRouter struct {
	*BaseRouter
	service service.IItemService
}

type itemsResponse struct {
	Items []*model.Item `json:"items"`
	Count int           `json:"count"`
}

type deletedResponse struct {
	Deleted string `json:"deleted"`
}

func itemRules() []Rule {
	return []Rule{
		Body("name").Trim().Tags("required,max=128"),
		Body("description").Tags("max=1024"),
	}
}

func NewItemsRouter(s service.IItemService, logger *zap.Logger, opts ...RouterOption) *ItemsRouter {
	ir := &ItemsRouter{service: s}
	ir.BaseRouter = NewBaseRouter(ir, Validators{
		Post: itemRules(),
		Put:  append([]Rule{KeyExists()}, itemRules()...),
	}, logger, opts...)
	return ir
}

func (h *ItemsRouter) Routes(r chi.Router) {
	r.With(Validate(Query("q").Trim().Tags("required"))).Get("/search", h.Search)
}

func (h *ItemsRouter) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondWithItems(w, r, items)
}

func (h *ItemsRouter) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondWithItems(w, r, items)
}

func (h *ItemsRouter) GetByKey(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), itemKey(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondWithItem(w, r, item)
}

func (h *ItemsRouter) Post(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.Logger().Info("item created", auditFields(r, item.Key)...)
	h.respondWithItem(w, r, item)
}

func (h *ItemsRouter) Put(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(r.Context(), itemKey(r), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondWithItem(w, r, item)
}

func (h *ItemsRouter) Delete(w http.ResponseWriter, r *http.Request) {
	key := itemKey(r)
	if err := h.service.Delete(r.Context(), key); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.Logger().Info("item deleted", auditFields(r, key)...)
	h.Format(w, r, FormatData{
		Plain: fmt.Sprintf("deleted %s", key),
		JSON:  deletedResponse{Deleted: key},
	}, http.StatusOK)
}

// auditFields names the item and, on authenticated requests, the token subject.
func auditFields(r *http.Request, key string) []zap.Field {
	fields := []zap.Field{zap.String("key", key)}
	if claims, ok := GetClaimsFromContext(r.Context()); ok {
		fields = append(fields, zap.String("subject", claims.Subject))
	}
	return fields
}

func itemKey(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "key"))
}

// decodeItemRequest builds the request DTO from the parsed body and checks
// its validate tags.
func (h *ItemsRouter) decodeItemRequest(w http.ResponseWriter, r *http.Request) (*model.DTOItemRequest, bool) {
	body := BodyFromContext(r.Context())
	req := &model.DTOItemRequest{}
	if name, ok := body["name"].(string); ok {
		req.Name = strings.TrimSpace(name)
	}
	if desc, ok := body["description"].(string); ok {
		req.Description = desc
	}

	if failures := ValidateStruct(req); len(failures) > 0 {
		RespondWithValidationFailures(w, r, failures)
		return nil, false
	}
	return req, true
}

func (h *ItemsRouter) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		HandleError(w, r, model.NewResponseError(http.StatusNotFound, fmt.Sprintf("item %s not found", itemKey(r))), h.Logger())
	case errors.Is(err, service.ErrInvalidInput):
		HandleError(w, r, model.NewResponseError(http.StatusBadRequest, err.Error()), h.Logger())
	default:
		HandleError(w, r, err, h.Logger())
	}
}

func (h *ItemsRouter) respondWithItem(w http.ResponseWriter, r *http.Request, item *model.Item) {
	h.Format(w, r, FormatData{
		Plain: formatItem(item),
		JSON:  item,
	}, http.StatusOK)
}

func (h *ItemsRouter) respondWithItems(w http.ResponseWriter, r *http.Request, items []*model.Item) {
	if items == nil {
		items = []*model.Item{}
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = formatItem(item)
	}
	h.Format(w, r, FormatData{
		Plain: strings.Join(lines, "\n"),
		JSON:  itemsResponse{Items: items, Count: len(items)},
	}, http.StatusOK)
}

func formatItem(item *model.Item) string {
	if item.Description == "" {
		return fmt.Sprintf("%s: %s", item.Key, item.Name)
	}
	return fmt.Sprintf("%s: %s - %s", item.Key, item.Name, item.Description)
}
