package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"idp-gateway/internal/authorize/claims"
	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/cache"
	dErrors "idp-gateway/pkg/domain-errors"
	audit "idp-gateway/pkg/platform/audit"
	"idp-gateway/pkg/platform/sentinel"
	"idp-gateway/pkg/requestcontext"
)

// GetOAuthDetails validates an authorization request against the client's
// registration, resolves its claim set and authentication factors, and
// creates the transaction. The transaction is written to the cache exactly
// once, after every validation has passed.
func (s *Service) GetOAuthDetails(ctx context.Context, req models.OAuthDetailRequest) (*models.OAuthDetailResponse, error) {
	ctx, span := s.startSpan(ctx, "authorize.GetOAuthDetails", "")
	defer span.End()
	span.SetAttributes(attribute.String("authorize.client_id", req.ClientID))

	if err := req.Validate(); err != nil {
		return nil, err
	}

	detail, err := s.registry.GetClientDetails(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidClient, "unknown or inactive client")
		}
		return nil, s.sanitize(err, dErrors.CodeInternal, "client registry unavailable")
	}

	if !containsString(detail.RedirectURIs, req.RedirectURI) {
		return nil, dErrors.New(dErrors.CodeInvalidRedirectURI, "redirect URI is not registered for this client")
	}

	resolved, err := s.claims.Resolve(req.Scope, req.Claims, detail.Claims)
	if err != nil {
		return nil, err
	}

	acrDetail, err := claims.ResolveACR(detail.ACRValues, req.ACRValues, req.Claims)
	if err != nil {
		return nil, err
	}
	resolved.IDToken[models.ClaimACR] = acrDetail

	authFactors := s.acr.AuthFactors(acrDetail.Values)

	now := requestcontext.Now(ctx)
	transactionID := newTransactionID(req.Nonce, now)

	txn := &models.Transaction{
		State:           models.StateInitiated,
		ClientID:        detail.ID,
		RelyingPartyID:  detail.RelyingPartyID,
		RedirectURI:     req.RedirectURI,
		RequestedClaims: resolved,
		ClaimsLocales:   req.ClaimsLocales,
		Nonce:           req.Nonce,
	}
	if err := s.cache.Put(ctx, cache.TransactionKey(transactionID), txn); err != nil {
		return nil, s.sanitize(err, dErrors.CodeInternal, "transaction cache unavailable")
	}

	essential, voluntary := partitionClaims(resolved.UserInfo)

	if s.metrics != nil {
		s.metrics.TransactionsStarted.Inc()
	}
	s.emitAudit(ctx, audit.EventTransactionStarted, txn, transactionID, "")
	s.logger.Info("authorization transaction created",
		"transaction_id", transactionID,
		"client_id", detail.ID,
		"acr_values", acrDetail.Values,
	)

	return &models.OAuthDetailResponse{
		TransactionID:   transactionID,
		AuthFactors:     authFactors,
		EssentialClaims: essential,
		VoluntaryClaims: voluntary,
		AuthorizeScopes: intersectScopes(strings.Fields(req.Scope), s.authorizeScopes),
		Configs:         s.uiConfigs,
		ClientName:      detail.Name,
		LogoURL:         detail.LogoURI,
	}, nil
}

// partitionClaims splits resolved user-info claims into essential and
// voluntary name lists. Output is sorted for stable responses.
func partitionClaims(userInfo map[string]*models.ClaimDetail) (essential, voluntary []string) {
	essential = make([]string, 0, len(userInfo))
	voluntary = make([]string, 0, len(userInfo))
	for name, detail := range userInfo {
		if detail != nil && detail.Essential {
			essential = append(essential, name)
		} else {
			voluntary = append(voluntary, name)
		}
	}
	sort.Strings(essential)
	sort.Strings(voluntary)
	return essential, voluntary
}

// intersectScopes keeps requested scopes the deployment supports for
// authorization, preserving request order.
func intersectScopes(requested, supported []string) []string {
	out := make([]string, 0, len(requested))
	for _, scope := range requested {
		if containsString(supported, scope) {
			out = append(out, scope)
		}
	}
	return out
}

func containsString(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
