// Package service orchestrates the authorization flow: detail resolution,
// challenge dispatch, credential verification, and code issuance. It owns
// the transaction state machine and is the only writer of the transaction
// cache.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"idp-gateway/internal/authorize/acr"
	"idp-gateway/internal/authorize/claims"
	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/cache"
	"idp-gateway/internal/client"
	"idp-gateway/internal/gateway"
	"idp-gateway/internal/platform/metrics"
	dErrors "idp-gateway/pkg/domain-errors"
	audit "idp-gateway/pkg/platform/audit"
	"idp-gateway/pkg/requestcontext"
)

// ClientRegistry resolves client registrations.
type ClientRegistry interface {
	GetClientDetails(ctx context.Context, clientID string) (*client.Detail, error)
}

// TransactionCache is the persistence contract for in-flight transactions.
type TransactionCache interface {
	Get(ctx context.Context, key string) (*models.Transaction, error)
	Put(ctx context.Context, key string, txn *models.Transaction) error
	PutUnderNewKey(ctx context.Context, newKey, oldKey string, txn *models.Transaction) error
	Delete(ctx context.Context, key string) error
}

// Authenticator is the external authentication backend contract.
type Authenticator interface {
	SendOtp(ctx context.Context, licenseKey, relyingPartyID, clientID string, dispatch gateway.OtpDispatch) (*gateway.SendOtpResult, []gateway.ServiceError, error)
	VerifyKyc(ctx context.Context, licenseKey, relyingPartyID, clientID string, verification gateway.KycVerification) (*gateway.KycAuthResult, []gateway.ServiceError, error)
}

// AuditPublisher records audit events; emission failures never fail a flow.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives a transaction through Initiated, Authenticated, and
// CodeIssued. Read-modify-write cycles on a transaction are serialized with
// a per-key lock so concurrent requests for the same transaction cannot
// interleave their cache writes.
type Service struct {
	registry ClientRegistry
	cache    TransactionCache
	authn    Authenticator
	acr      *acr.Resolver
	claims   *claims.Resolver

	locks  *cache.KeyLock
	tracer trace.Tracer

	licenseKey      string
	authorizeScopes []string
	uiConfigs       map[string]any

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables Prometheus counters for the flow.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditPublisher enables audit event emission.
func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) {
		s.audit = pub
	}
}

// WithLicenseKey sets the partner license key forwarded to the backend.
func WithLicenseKey(key string) Option {
	return func(s *Service) {
		s.licenseKey = key
	}
}

// WithAuthorizeScopes sets the scopes the deployment allows clients to
// request authorization for.
func WithAuthorizeScopes(scopes []string) Option {
	return func(s *Service) {
		s.authorizeScopes = scopes
	}
}

// WithUIConfigs sets the static configuration blob returned to the
// authentication UI alongside resolved details.
func WithUIConfigs(configs map[string]any) Option {
	return func(s *Service) {
		s.uiConfigs = configs
	}
}

func NewService(
	registry ClientRegistry,
	txnCache TransactionCache,
	authn Authenticator,
	acrResolver *acr.Resolver,
	claimsResolver *claims.Resolver,
	opts ...Option,
) *Service {
	s := &Service{
		registry: registry,
		cache:    txnCache,
		authn:    authn,
		acr:      acrResolver,
		claims:   claimsResolver,
		locks:    cache.NewKeyLock(),
		tracer:   otel.Tracer("idp-gateway/authorize"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// emitAudit records an event enriched with request metadata. Audit failures
// are logged and swallowed so they cannot fail the authorization flow.
func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, txn *models.Transaction, transactionID, reason string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Action:        string(action),
		TransactionID: transactionID,
		Reason:        reason,
		RequestID:     requestcontext.RequestID(ctx),
		ClientIP:      requestcontext.ClientIP(ctx),
		UserAgent:     requestcontext.UserAgent(ctx),
		Device:        requestcontext.Device(ctx),
	}
	if txn != nil {
		event.ClientID = txn.ClientID
		event.RelyingParty = txn.RelyingPartyID
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Error("audit emit failed", "action", action, "error", err)
	}
}

func (s *Service) startSpan(ctx context.Context, name, transactionID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	if transactionID != "" {
		span.SetAttributes(attribute.String("authorize.transaction_id", transactionID))
	}
	return ctx, span
}

// sanitize hides infrastructure details behind stable flow-level codes.
// Anything that is not already a domain error is logged and replaced.
func (s *Service) sanitize(err error, code dErrors.Code, message string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	s.logger.Error(message, "error", err)
	return dErrors.New(code, message)
}
