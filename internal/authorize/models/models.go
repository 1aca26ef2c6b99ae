package models

import (
	dErrors "idp-gateway/pkg/domain-errors"
)

// ClaimACR is the claim name under which the resolved ACR values travel in
// the id_token claim set. It is always present and always essential.
const ClaimACR = "acr"

// ScopeOpenID is the scope token that marks a request as OIDC-flavored.
// Explicit claim requests are only honored when it is present.
const ScopeOpenID = "openid"

// TransactionState tracks where a transaction sits in the authorization
// handshake. Dispatching a challenge does not persist a state change.
type TransactionState string

const (
	StateInitiated     TransactionState = "INITIATED"
	StateAuthenticated TransactionState = "AUTHENTICATED"
	StateCodeIssued    TransactionState = "CODE_ISSUED"
)

// ClaimDetail captures the essentiality flag and optional permitted values of
// one requested claim, per the OIDC claims request syntax.
type ClaimDetail struct {
	Essential bool     `json:"essential"`
	Values    []string `json:"values,omitempty"`
}

// Claims holds the resolved claim sets for a transaction. A nil ClaimDetail
// means the claim is voluntary with no value constraint.
type Claims struct {
	UserInfo map[string]*ClaimDetail `json:"userinfo"`
	IDToken  map[string]*ClaimDetail `json:"id_token"`
}

// NewClaims returns an empty, fully initialized claim set.
func NewClaims() Claims {
	return Claims{
		UserInfo: make(map[string]*ClaimDetail),
		IDToken:  make(map[string]*ClaimDetail),
	}
}

// AuthenticationFactor describes one factor inside an AMR factor-group.
type AuthenticationFactor struct {
	Type     string   `json:"type"`
	Count    int      `json:"count,omitempty"`
	SubTypes []string `json:"subTypes,omitempty"`
}

// AuthChallenge is one challenge response inside a credential verification
// request. The challenge value is opaque to this core.
type AuthChallenge struct {
	AuthFactorType string `json:"authFactorType"`
	Challenge      string `json:"challenge"`
}

// Transaction is the central mutable entity of the authorization flow. It is
// addressable by its transaction ID before code issuance and by the issued
// authorization code afterwards; the cache is its only home between requests.
type Transaction struct {
	State TransactionState `json:"state"`

	ClientID        string `json:"clientId"`
	RelyingPartyID  string `json:"relyingPartyId"`
	RedirectURI     string `json:"redirectUri"`
	RequestedClaims Claims `json:"requestedClaims"`
	ClaimsLocales   string `json:"claimsLocales,omitempty"`
	Nonce           string `json:"nonce,omitempty"`

	// Set by credential verification.
	KycToken                 string `json:"kycToken,omitempty"`
	PartnerSpecificUserToken string `json:"partnerSpecificUserToken,omitempty"`
	AuthTimeSeconds          int64  `json:"authTimeSeconds,omitempty"`

	// Set by code issuance.
	Code            string   `json:"code,omitempty"`
	AcceptedClaims  []string `json:"acceptedClaims,omitempty"`
	PermittedScopes []string `json:"permittedScopes,omitempty"`

	// Error code recorded when verification failed.
	Error string `json:"error,omitempty"`
}

// OAuthDetailRequest is the inbound shape for authorization detail resolution.
type OAuthDetailRequest struct {
	ClientID      string  `json:"clientId"`
	Scope         string  `json:"scope"`
	RedirectURI   string  `json:"redirectUri"`
	Nonce         string  `json:"nonce"`
	ACRValues     string  `json:"acrValues,omitempty"`
	Claims        *Claims `json:"claims,omitempty"`
	ClaimsLocales string  `json:"claimsLocales,omitempty"`
}

// Validate rejects requests missing the fields every flow needs.
func (r OAuthDetailRequest) Validate() error {
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "clientId is required")
	}
	if r.RedirectURI == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "redirectUri is required")
	}
	if r.Nonce == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "nonce is required")
	}
	return nil
}

// OAuthDetailResponse is returned from detail resolution: everything the
// authentication UI needs to run the handshake.
type OAuthDetailResponse struct {
	TransactionID   string                   `json:"transactionId"`
	AuthFactors     [][]AuthenticationFactor `json:"authFactors"`
	EssentialClaims []string                 `json:"essentialClaims"`
	VoluntaryClaims []string                 `json:"voluntaryClaims"`
	AuthorizeScopes []string                 `json:"authorizeScopes"`
	Configs         map[string]any           `json:"configs,omitempty"`
	ClientName      string                   `json:"clientName,omitempty"`
	LogoURL         string                   `json:"logoUrl,omitempty"`
}

// OtpRequest asks the authentication backend to deliver a one-time code to
// the subject over the given channel.
type OtpRequest struct {
	TransactionID string `json:"transactionId"`
	IndividualID  string `json:"individualId"`
	Channel       string `json:"channel"`
}

// Validate rejects challenge dispatch requests with missing identifiers.
func (r OtpRequest) Validate() error {
	if r.TransactionID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "transactionId is required")
	}
	if r.IndividualID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "individualId is required")
	}
	if r.Channel == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "channel is required")
	}
	return nil
}

// OtpResponse acknowledges a dispatched challenge. MessageCode is the
// gateway's localizable delivery message identifier.
type OtpResponse struct {
	TransactionID string `json:"transactionId"`
	MessageCode   string `json:"messageCode,omitempty"`
}

// KycAuthRequest carries 1–5 challenge responses to credential verification.
// It is never persisted beyond the verification call.
type KycAuthRequest struct {
	TransactionID string          `json:"transactionId"`
	IndividualID  string          `json:"individualId"`
	ChallengeList []AuthChallenge `json:"challengeList"`
}

// Validate enforces the challenge list bounds before any cache read.
func (r KycAuthRequest) Validate() error {
	if r.TransactionID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "transactionId is required")
	}
	if r.IndividualID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "individualId is required")
	}
	if len(r.ChallengeList) < 1 || len(r.ChallengeList) > 5 {
		return dErrors.New(dErrors.CodeInvalidInput, "challengeList must carry between 1 and 5 entries")
	}
	for _, c := range r.ChallengeList {
		if c.AuthFactorType == "" || c.Challenge == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "challenge entries need a factor type and a challenge value")
		}
	}
	return nil
}

// AuthResponse acknowledges a successful credential verification.
type AuthResponse struct {
	TransactionID string `json:"transactionId"`
}

// AuthCodeRequest carries the consent decision into code issuance.
type AuthCodeRequest struct {
	TransactionID            string   `json:"transactionId"`
	AcceptedClaims           []string `json:"acceptedClaims,omitempty"`
	PermittedAuthorizeScopes []string `json:"permittedAuthorizeScopes,omitempty"`
}

// Validate rejects code issuance requests without a transaction identifier.
func (r AuthCodeRequest) Validate() error {
	if r.TransactionID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "transactionId is required")
	}
	return nil
}

// AuthCodeResponse returns the issued code and the redirect target the user
// agent should be sent back to.
type AuthCodeResponse struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
	Nonce       string `json:"nonce,omitempty"`
}
