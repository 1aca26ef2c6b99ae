// Package gateway abstracts the external authentication backend that
// delivers challenges and performs KYC verification of end users.
package gateway

import (
	"context"

	"idp-gateway/internal/authorize/models"
)

// ServiceError is a backend-reported failure with its upstream code intact.
// Codes are passed through to callers untranslated so relying parties see
// the same vocabulary the authentication backend emits.
type ServiceError struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// OtpDispatch asks the backend to deliver a one-time password to the
// individual over the requested channels.
type OtpDispatch struct {
	TransactionID string   `json:"transactionId"`
	IndividualID  string   `json:"individualId"`
	OtpChannels   []string `json:"otpChannels"`
}

// StatusSuccess is the delivery status the backend reports when a challenge
// was handed to the delivery channel.
const StatusSuccess = "SUCCESS"

// SendOtpResult reports delivery status plus a message code the UI can
// localize (for example "otp-emailed", "otp-sms-sent"). On a declared
// delivery failure the message code names the reason.
type SendOtpResult struct {
	Status      string `json:"status"`
	MessageCode string `json:"messageCode"`
}

// KycVerification carries the challenges the individual answered.
type KycVerification struct {
	TransactionID string                 `json:"transactionId"`
	IndividualID  string                 `json:"individualId"`
	Challenges    []models.AuthChallenge `json:"challengeList"`
}

// KycAuthResult is returned only on successful verification.
type KycAuthResult struct {
	KycToken                 string `json:"kycToken"`
	PartnerSpecificUserToken string `json:"partnerSpecificUserToken"`
}

// Authenticator is the contract with the external authentication backend.
//
// Both methods distinguish backend-reported rejections (the ServiceError
// slice, upstream codes intact) from transport and infrastructure errors
// (the error return). A nil result with an empty slice and a nil error
// never happens.
type Authenticator interface {
	SendOtp(ctx context.Context, licenseKey, relyingPartyID, clientID string, dispatch OtpDispatch) (*SendOtpResult, []ServiceError, error)
	VerifyKyc(ctx context.Context, licenseKey, relyingPartyID, clientID string, verification KycVerification) (*KycAuthResult, []ServiceError, error)
}
