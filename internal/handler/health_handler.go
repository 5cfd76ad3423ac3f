package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/model"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     pinger
	logger *zap.Logger
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// NewHealthHandler reports service health. A nil db means the service runs
// on the in-memory store.
func NewHealthHandler(db *sql.DB, logger *zap.Logger) *HealthHandler {
	h := &HealthHandler{logger: logger.Named("HealthHandler")}
	if db != nil {
		h.db = db
	}
	return h
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	database := "not configured"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("health check failed: database connection error", zap.Error(err))
			RespondWithErrors(w, r, []error{model.NewResponseError(http.StatusServiceUnavailable, "Database connection failed")}, http.StatusServiceUnavailable)
			return
		}
		database = "ok"
	}

	Format(w, r, FormatData{
		Plain: "ok",
		JSON:  healthResponse{Status: "ok", Database: database},
	}, http.StatusOK)
}
