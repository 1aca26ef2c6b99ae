package token

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"idp-gateway/internal/platform/middleware"
	dErrors "idp-gateway/pkg/domain-errors"
	"idp-gateway/pkg/platform/httputil"
)

// Handler exposes the code exchange endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a token Handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the token route with the chi router.
func (h *Handler) Register(r chi.Router) {
	tokenRouter := chi.NewRouter()
	tokenRouter.Use(middleware.Recovery(h.logger))
	tokenRouter.Use(middleware.RequestID)
	tokenRouter.Use(middleware.RequestTime)
	tokenRouter.Use(middleware.Logger(h.logger))
	tokenRouter.Use(middleware.ContentTypeJSON)
	tokenRouter.Use(middleware.ClientMetadata)
	tokenRouter.Post("/", h.handleExchange)

	r.Mount("/token", tokenRouter)
}

func (h *Handler) handleExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.Exchange(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
