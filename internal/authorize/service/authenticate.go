package service

import (
	"context"
	"errors"
	"fmt"

	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/cache"
	"idp-gateway/internal/gateway"
	dErrors "idp-gateway/pkg/domain-errors"
	audit "idp-gateway/pkg/platform/audit"
	"idp-gateway/pkg/platform/sentinel"
	"idp-gateway/pkg/requestcontext"
)

// SendOtp asks the authentication backend to dispatch a one-time code for an
// in-flight transaction. The transaction itself is not mutated: a dispatched
// challenge is not a state change.
func (s *Service) SendOtp(ctx context.Context, req models.OtpRequest) (*models.OtpResponse, error) {
	ctx, span := s.startSpan(ctx, "authorize.SendOtp", req.TransactionID)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.loadTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn.State == models.StateCodeIssued {
		return nil, dErrors.New(dErrors.CodeInvalidTransaction, "transaction already completed")
	}

	result, svcErrs, err := s.authn.SendOtp(ctx, s.licenseKey, txn.RelyingPartyID, txn.ClientID, gateway.OtpDispatch{
		TransactionID: req.TransactionID,
		IndividualID:  req.IndividualID,
		OtpChannels:   []string{req.Channel},
	})
	if err != nil {
		s.logger.Error("challenge dispatch failed", "transaction_id", req.TransactionID, "error", err)
		return nil, dErrors.New(dErrors.CodeAuthFailed, "challenge could not be dispatched")
	}
	if len(svcErrs) > 0 {
		first := svcErrs[0]
		return nil, dErrors.New(dErrors.Code(first.ErrorCode), first.ErrorMessage)
	}
	if result == nil || result.Status != gateway.StatusSuccess {
		// The backend accepted the request but declares the delivery failed;
		// the message code names the reason and is surfaced unchanged.
		code := dErrors.CodeAuthFailed
		if result != nil && result.MessageCode != "" {
			code = dErrors.Code(result.MessageCode)
		}
		s.logger.Warn("challenge delivery declared failed", "transaction_id", req.TransactionID, "code", string(code))
		return nil, dErrors.New(code, "challenge could not be delivered")
	}

	if s.metrics != nil {
		s.metrics.ChallengesSent.Inc()
	}
	s.emitAudit(ctx, audit.EventOtpRequested, txn, req.TransactionID, "")

	return &models.OtpResponse{
		TransactionID: req.TransactionID,
		MessageCode:   result.MessageCode,
	}, nil
}

// AuthenticateUser verifies the subject's challenge responses against the
// authentication backend and, on success, moves the transaction to
// Authenticated. The per-key lock covers the whole read-verify-write cycle.
func (s *Service) AuthenticateUser(ctx context.Context, req models.KycAuthRequest) (*models.AuthResponse, error) {
	ctx, span := s.startSpan(ctx, "authorize.AuthenticateUser", req.TransactionID)
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
	if txn.State == models.StateCodeIssued {
		return nil, dErrors.New(dErrors.CodeInvalidTransaction, "transaction already completed")
	}

	result, svcErrs, err := s.verifyKyc(ctx, txn, req)
	if err != nil {
		s.recordAuthFailure(ctx, txn, req.TransactionID, dErrors.CodeOf(err))
		return nil, err
	}
	if len(svcErrs) > 0 {
		// The backend speaks its own error vocabulary; the first entry is
		// surfaced to the caller unchanged.
		first := svcErrs[0]
		s.recordAuthFailure(ctx, txn, req.TransactionID, dErrors.Code(first.ErrorCode))
		return nil, dErrors.New(dErrors.Code(first.ErrorCode), first.ErrorMessage)
	}

	txn.KycToken = result.KycToken
	txn.PartnerSpecificUserToken = result.PartnerSpecificUserToken
	txn.AuthTimeSeconds = requestcontext.Now(ctx).Unix()
	txn.State = models.StateAuthenticated
	txn.Error = ""
	if err := s.cache.Put(ctx, cache.TransactionKey(req.TransactionID), txn); err != nil {
		return nil, s.sanitize(err, dErrors.CodeInternal, "transaction cache unavailable")
	}

	if s.metrics != nil {
		s.metrics.AuthSuccess.Inc()
	}
	s.emitAudit(ctx, audit.EventAuthSucceeded, txn, req.TransactionID, "")
	s.logger.Info("credentials verified", "transaction_id", req.TransactionID, "client_id", txn.ClientID)

	return &models.AuthResponse{TransactionID: req.TransactionID}, nil
}

// verifyKyc calls the backend and normalizes every opaque failure mode,
// panics included, to an auth_failed domain error. Backend internals are
// logged but never surfaced to callers.
func (s *Service) verifyKyc(ctx context.Context, txn *models.Transaction, req models.KycAuthRequest) (result *gateway.KycAuthResult, svcErrs []gateway.ServiceError, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("authentication backend panicked", "transaction_id", req.TransactionID, "panic", fmt.Sprint(r))
			result, svcErrs = nil, nil
			err = dErrors.New(dErrors.CodeAuthFailed, "credential verification failed")
		}
	}()

	result, svcErrs, err = s.authn.VerifyKyc(ctx, s.licenseKey, txn.RelyingPartyID, txn.ClientID, gateway.KycVerification{
		TransactionID: req.TransactionID,
		IndividualID:  req.IndividualID,
		Challenges:    req.ChallengeList,
	})
	if err != nil {
		s.logger.Error("credential verification errored", "transaction_id", req.TransactionID, "error", err)
		return nil, nil, dErrors.New(dErrors.CodeAuthFailed, "credential verification failed")
	}
	if result == nil && len(svcErrs) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeAuthFailed, "credential verification failed")
	}
	return result, svcErrs, nil
}

// recordAuthFailure stamps the failure code on the transaction so the cache
// entry carries why the last verification failed. The write is best effort;
// a cache error must not mask the verification failure itself.
func (s *Service) recordAuthFailure(ctx context.Context, txn *models.Transaction, transactionID string, code dErrors.Code) {
	if s.metrics != nil {
		s.metrics.AuthFailure.Inc()
	}
	if txn != nil {
		txn.Error = string(code)
		if err := s.cache.Put(ctx, cache.TransactionKey(transactionID), txn); err != nil {
			s.logger.Error("failure code not recorded", "transaction_id", transactionID, "error", err)
		}
	}
	s.emitAudit(ctx, audit.EventAuthFailed, txn, transactionID, string(code))
}

// loadTransaction maps a cache miss to invalid_transaction so callers cannot
// distinguish expired from never-created.
func (s *Service) loadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, err := s.cache.Get(ctx, cache.TransactionKey(transactionID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidTransaction, "transaction is unknown or has expired")
		}
		return nil, s.sanitize(err, dErrors.CodeInternal, "transaction cache unavailable")
	}
	return txn, nil
}
