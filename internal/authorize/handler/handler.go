// Package handler exposes the authorization flow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/platform/middleware"
	dErrors "idp-gateway/pkg/domain-errors"
	"idp-gateway/pkg/platform/httputil"
	"idp-gateway/pkg/requestcontext"
)

// Service defines the authorization operations the transport needs.
type Service interface {
	GetOAuthDetails(ctx context.Context, req models.OAuthDetailRequest) (*models.OAuthDetailResponse, error)
	SendOtp(ctx context.Context, req models.OtpRequest) (*models.OtpResponse, error)
	AuthenticateUser(ctx context.Context, req models.KycAuthRequest) (*models.AuthResponse, error)
	GetAuthCode(ctx context.Context, req models.AuthCodeRequest) (*models.AuthCodeResponse, error)
}

// Handler handles the authorization endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new authorization Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the authorization routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Recovery(h.logger))
	authRouter.Use(middleware.RequestID)
	authRouter.Use(middleware.RequestTime)
	authRouter.Use(middleware.Logger(h.logger))
	authRouter.Use(middleware.ContentTypeJSON)
	authRouter.Use(middleware.ClientMetadata)
	authRouter.Use(middleware.Device)
	authRouter.Post("/oauth-details", h.handleOAuthDetails)
	authRouter.Post("/send-otp", h.handleSendOtp)
	authRouter.Post("/authenticate", h.handleAuthenticate)
	authRouter.Post("/auth-code", h.handleAuthCode)

	r.Mount("/authorization", authRouter)
}

func (h *Handler) handleOAuthDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.OAuthDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid oauth-details request body", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.GetOAuthDetails(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "oauth details resolution failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSendOtp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.OtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid send-otp request body", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.SendOtp(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "challenge dispatch failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.KycAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid authenticate request body", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.AuthenticateUser(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "credential verification failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAuthCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.AuthCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid auth-code request body", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.GetAuthCode(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "code issuance failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.warn(ctx, msg, err)
	}
	httputil.WriteError(w, err)
}
