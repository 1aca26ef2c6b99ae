package service

import (
	"context"

	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/cache"
	dErrors "idp-gateway/pkg/domain-errors"
	audit "idp-gateway/pkg/platform/audit"
)

// GetAuthCode issues the authorization code for an authenticated transaction
// and re-keys the cache entry so the transaction is addressable only by its
// code from here on. Requires the Authenticated state; a second issuance
// attempt finds no transaction under the old key and fails.
func (s *Service) GetAuthCode(ctx context.Context, req models.AuthCodeRequest) (*models.AuthCodeResponse, error) {
	ctx, span := s.startSpan(ctx, "authorize.GetAuthCode", req.TransactionID)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(cache.TransactionKey(req.TransactionID))
	defer unlock()

	txn, err := s.loadTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn.State != models.StateAuthenticated {
		return nil, dErrors.New(dErrors.CodeInvalidTransaction, "transaction is not authenticated")
	}

	code := newAuthCode()
	txn.Code = code
	txn.AcceptedClaims = req.AcceptedClaims
	txn.PermittedScopes = req.PermittedAuthorizeScopes
	txn.State = models.StateCodeIssued

	if err := s.cache.PutUnderNewKey(ctx, cache.AuthCodeKey(code), cache.TransactionKey(req.TransactionID), txn); err != nil {
		return nil, s.sanitize(err, dErrors.CodeInternal, "transaction cache unavailable")
	}

	if s.metrics != nil {
		s.metrics.CodesIssued.Inc()
	}
	s.emitAudit(ctx, audit.EventCodeIssued, txn, req.TransactionID, "")
	s.logger.Info("authorization code issued", "transaction_id", req.TransactionID, "client_id", txn.ClientID)

	return &models.AuthCodeResponse{
		Code:        code,
		RedirectURI: txn.RedirectURI,
		Nonce:       txn.Nonce,
	}, nil
}
