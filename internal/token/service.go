// Package token implements the downstream consumption of a code-keyed
// transaction: exchanging an authorization code for an ID token and an
// access token. The code is consumed exactly once.
package token

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/cache"
	"idp-gateway/internal/client"
	dErrors "idp-gateway/pkg/domain-errors"
	audit "idp-gateway/pkg/platform/audit"
	"idp-gateway/pkg/platform/sentinel"
	"idp-gateway/pkg/requestcontext"
)

// IDTokenClaims is the claim set of a minted ID token.
type IDTokenClaims struct {
	Nonce    string `json:"nonce,omitempty"`
	ACR      string `json:"acr,omitempty"`
	AuthTime int64  `json:"auth_time,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenClaims is the claim set of a minted access token.
type AccessTokenClaims struct {
	Scope    string `json:"scope,omitempty"`
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// AuditPublisher records audit events; emission failures never fail a flow.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service mints tokens from consumed transactions.
type Service struct {
	registry client.Registry
	cache    cache.TransactionCache
	locks    *cache.KeyLock

	signingKey []byte
	issuer     string
	tokenTTL   time.Duration

	logger *slog.Logger
	audit  AuditPublisher
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

// WithAuditPublisher enables audit event emission.
func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) {
		s.audit = pub
	}
}

// WithTokenTTL overrides the token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func NewService(registry client.Registry, txnCache cache.TransactionCache, signingKey, issuer string, opts ...Option) *Service {
	s := &Service{
		registry:   registry,
		cache:      txnCache,
		locks:      cache.NewKeyLock(),
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   time.Hour,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ExchangeRequest carries the code grant. ClientSecret is checked only when
// the client registered one.
type ExchangeRequest struct {
	Code         string `json:"code"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// ExchangeResponse carries the minted tokens.
type ExchangeResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Exchange consumes a code-keyed transaction and mints the token pair.
// A consumed or unknown code is indistinguishable to the caller.
func (s *Service) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResponse, error) {
	if req.Code == "" || req.ClientID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "code and clientId are required")
	}

	detail, err := s.registry.GetClientDetails(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidClient, "unknown or inactive client")
		}
		s.logger.Error("client registry unavailable", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "client registry unavailable")
	}
	if detail.SecretHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(detail.SecretHash), []byte(req.ClientSecret)); err != nil {
			return nil, dErrors.New(dErrors.CodeInvalidClient, "client authentication failed")
		}
	}

	key := cache.AuthCodeKey(req.Code)
	unlock := s.locks.Lock(key)
	defer unlock()

	txn, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidTransaction, "code is unknown, expired, or already used")
		}
		s.logger.Error("transaction cache unavailable", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "transaction cache unavailable")
	}
	if txn.State != models.StateCodeIssued || txn.ClientID != req.ClientID {
		return nil, dErrors.New(dErrors.CodeInvalidTransaction, "code is unknown, expired, or already used")
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// The entry vanished between Get and Delete: a concurrent
			// exchange won the race.
			s.emitAudit(ctx, audit.EventTokenReplayed, txn, req.Code)
			return nil, dErrors.New(dErrors.CodeInvalidTransaction, "code is unknown, expired, or already used")
		}
		s.logger.Error("transaction cache unavailable", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "transaction cache unavailable")
	}

	now := requestcontext.Now(ctx)
	idToken, err := s.mintIDToken(txn, now)
	if err != nil {
		s.logger.Error("id token minting failed", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "token minting failed")
	}
	accessToken, err := s.mintAccessToken(txn, now)
	if err != nil {
		s.logger.Error("access token minting failed", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "token minting failed")
	}

	s.emitAudit(ctx, audit.EventTokenExchanged, txn, "")
	s.logger.Info("code exchanged for tokens", "client_id", txn.ClientID)

	return &ExchangeResponse{
		IDToken:     idToken,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *Service) mintIDToken(txn *models.Transaction, now time.Time) (string, error) {
	claims := IDTokenClaims{
		Nonce:    txn.Nonce,
		ACR:      firstACR(txn),
		AuthTime: txn.AuthTimeSeconds,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   txn.PartnerSpecificUserToken,
			Issuer:    s.issuer,
			Audience:  []string{txn.ClientID},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *Service) mintAccessToken(txn *models.Transaction, now time.Time) (string, error) {
	claims := AccessTokenClaims{
		Scope:    strings.Join(txn.PermittedScopes, " "),
		ClientID: txn.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   txn.PartnerSpecificUserToken,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// firstACR picks the leading resolved ACR value for the acr claim.
func firstACR(txn *models.Transaction) string {
	if detail := txn.RequestedClaims.IDToken[models.ClaimACR]; detail != nil && len(detail.Values) > 0 {
		return detail.Values[0]
	}
	return ""
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, txn *models.Transaction, reason string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Action:       string(action),
		ClientID:     txn.ClientID,
		RelyingParty: txn.RelyingPartyID,
		Reason:       reason,
		RequestID:    requestcontext.RequestID(ctx),
		ClientIP:     requestcontext.ClientIP(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Error("audit emit failed", "action", action, "error", err)
	}
}
