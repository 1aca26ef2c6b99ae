package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ClientRegistry,TransactionCache,Authenticator,AuditPublisher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"idp-gateway/internal/authorize/acr"
	"idp-gateway/internal/authorize/claims"
	"idp-gateway/internal/authorize/models"
	"idp-gateway/internal/authorize/service/mocks"
	"idp-gateway/internal/cache"
	"idp-gateway/internal/client"
	"idp-gateway/internal/gateway"
	dErrors "idp-gateway/pkg/domain-errors"
	"idp-gateway/pkg/platform/sentinel"
	"idp-gateway/pkg/requestcontext"
)

const testMapping = `{
	"amr": {
		"PIN": [{"type": "PIN"}],
		"OTP": [{"type": "OTP"}],
		"L1-bio-device": [{"type": "BIO", "count": 1}]
	},
	"acr_amr": {
		"acr:static-code": ["PIN"],
		"acr:generated-code": ["OTP"],
		"acr:biometrics": ["L1-bio-device"]
	}
}`

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	registry *mocks.MockClientRegistry
	cache    *mocks.MockTransactionCache
	authn    *mocks.MockAuthenticator
	audit    *mocks.MockAuditPublisher
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockClientRegistry(s.ctrl)
	s.cache = mocks.NewMockTransactionCache(s.ctrl)
	s.authn = mocks.NewMockAuthenticator(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)

	acrResolver, err := acr.New([]byte(testMapping))
	s.Require().NoError(err)

	claimsResolver := claims.NewResolver(map[string][]string{
		"profile": {"name", "gender", "birthdate"},
		"email":   {"email"},
	})

	s.service = NewService(
		s.registry, s.cache, s.authn, acrResolver, claimsResolver,
		WithLicenseKey("test-license"),
		WithAuthorizeScopes([]string{"health_service", "tax_service"}),
		WithAuditPublisher(s.audit),
	)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), testTime)
}

func (s *ServiceSuite) registeredClient() *client.Detail {
	return &client.Detail{
		ID:             "client-1",
		Name:           "Health Portal",
		RelyingPartyID: "rp-1",
		LogoURI:        "https://portal.example/logo.png",
		RedirectURIs:   []string{"https://portal.example/cb"},
		ACRValues:      []string{"acr:generated-code", "acr:biometrics"},
		Claims:         []string{"name", "email", "gender"},
		Status:         client.StatusActive,
	}
}

func (s *ServiceSuite) detailRequest() models.OAuthDetailRequest {
	return models.OAuthDetailRequest{
		ClientID:    "client-1",
		Scope:       "openid profile health_service",
		RedirectURI: "https://portal.example/cb",
		Nonce:       "nonce-123",
	}
}

// --- GetOAuthDetails -------------------------------------------------------

func (s *ServiceSuite) TestGetOAuthDetails_UnknownClient() {
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)

	req := s.detailRequest()
	req.ClientID = "ghost"
	_, err := s.service.GetOAuthDetails(s.ctx(), req)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidClient))
}

func (s *ServiceSuite) TestGetOAuthDetails_UnregisteredRedirectURI() {
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(s.registeredClient(), nil)

	req := s.detailRequest()
	req.RedirectURI = "https://evil.example/cb"
	_, err := s.service.GetOAuthDetails(s.ctx(), req)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidRedirectURI))
}

func (s *ServiceSuite) TestGetOAuthDetails_ExplicitClaimsWithoutOpenID() {
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(s.registeredClient(), nil)

	req := s.detailRequest()
	req.Scope = "profile"
	req.Claims = &models.Claims{UserInfo: map[string]*models.ClaimDetail{"name": nil}}
	_, err := s.service.GetOAuthDetails(s.ctx(), req)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidScope))
}

func (s *ServiceSuite) TestGetOAuthDetails_NoRegisteredACR() {
	detail := s.registeredClient()
	detail.ACRValues = nil
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(detail, nil)

	_, err := s.service.GetOAuthDetails(s.ctx(), s.detailRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNoACRRegistered))
}

func (s *ServiceSuite) TestGetOAuthDetails_HappyPath() {
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(s.registeredClient(), nil)

	var storedKey string
	var stored *models.Transaction
	s.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, txn *models.Transaction) error {
			storedKey = key
			stored = txn
			return nil
		})

	resp, err := s.service.GetOAuthDetails(s.ctx(), s.detailRequest())
	s.Require().NoError(err)

	s.NotEmpty(resp.TransactionID)
	s.Equal(cache.TransactionKey(resp.TransactionID), storedKey)
	s.Require().NotNil(stored)
	s.Equal(models.StateInitiated, stored.State)
	s.Equal("client-1", stored.ClientID)
	s.Equal("rp-1", stored.RelyingPartyID)
	s.Equal("nonce-123", stored.Nonce)

	// Scope-derived claims enter as voluntary; only registered names survive.
	s.Empty(resp.EssentialClaims)
	s.ElementsMatch([]string{"name", "gender"}, resp.VoluntaryClaims)

	// Registered ACR order drives the factor list.
	s.Require().Len(resp.AuthFactors, 2)
	s.Equal("OTP", resp.AuthFactors[0][0].Type)
	s.Equal("BIO", resp.AuthFactors[1][0].Type)

	// ACR claim is always essential in the stored transaction.
	acrClaim := stored.RequestedClaims.IDToken[models.ClaimACR]
	s.Require().NotNil(acrClaim)
	s.True(acrClaim.Essential)
	s.Equal([]string{"acr:generated-code", "acr:biometrics"}, acrClaim.Values)

	s.Equal([]string{"health_service"}, resp.AuthorizeScopes)
	s.Equal("Health Portal", resp.ClientName)
	s.Equal("https://portal.example/logo.png", resp.LogoURL)
}

func (s *ServiceSuite) TestGetOAuthDetails_ExplicitEssentialClaim() {
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(s.registeredClient(), nil)
	s.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	req := s.detailRequest()
	req.Claims = &models.Claims{UserInfo: map[string]*models.ClaimDetail{
		"email": {Essential: true},
	}}
	resp, err := s.service.GetOAuthDetails(s.ctx(), req)
	s.Require().NoError(err)

	s.Equal([]string{"email"}, resp.EssentialClaims)
	s.ElementsMatch([]string{"name", "gender"}, resp.VoluntaryClaims)
}

func (s *ServiceSuite) TestGetOAuthDetails_ACRValuesParamFallback() {
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(s.registeredClient(), nil)

	var stored *models.Transaction
	s.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, txn *models.Transaction) error {
			stored = txn
			return nil
		})

	req := s.detailRequest()
	req.ACRValues = "acr:biometrics acr:static-code"
	resp, err := s.service.GetOAuthDetails(s.ctx(), req)
	s.Require().NoError(err)

	// static-code is not registered for the client, biometrics survives.
	s.Equal([]string{"acr:biometrics"}, stored.RequestedClaims.IDToken[models.ClaimACR].Values)
	s.Require().Len(resp.AuthFactors, 1)
	s.Equal("BIO", resp.AuthFactors[0][0].Type)
}

func (s *ServiceSuite) TestGetOAuthDetails_NoCacheWriteOnValidationFailure() {
	// Cache mock has no Put expectation: any write would fail the test.
	s.registry.EXPECT().GetClientDetails(gomock.Any(), "client-1").Return(s.registeredClient(), nil)

	req := s.detailRequest()
	req.RedirectURI = "https://evil.example/cb"
	_, err := s.service.GetOAuthDetails(s.ctx(), req)
	s.Require().Error(err)
}

// --- SendOtp ---------------------------------------------------------------

func (s *ServiceSuite) otpRequest() models.OtpRequest {
	return models.OtpRequest{
		TransactionID: "txn-abc",
		IndividualID:  "8267411571",
		Channel:       "email",
	}
}

func (s *ServiceSuite) initiatedTxn() *models.Transaction {
	return &models.Transaction{
		State:          models.StateInitiated,
		ClientID:       "client-1",
		RelyingPartyID: "rp-1",
		RedirectURI:    "https://portal.example/cb",
		Nonce:          "nonce-123",
	}
}

func (s *ServiceSuite) TestSendOtp_UnknownTransaction() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransaction))
}

func (s *ServiceSuite) TestSendOtp_PassesMessageCodeThrough() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		SendOtp(gomock.Any(), "test-license", "rp-1", "client-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _ string, dispatch gateway.OtpDispatch) (*gateway.SendOtpResult, []gateway.ServiceError, error) {
			s.Equal("txn-abc", dispatch.TransactionID)
			s.Equal([]string{"email"}, dispatch.OtpChannels)
			return &gateway.SendOtpResult{Status: gateway.StatusSuccess, MessageCode: "otp-emailed"}, nil, nil
		})

	resp, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().NoError(err)
	s.Equal("txn-abc", resp.TransactionID)
	s.Equal("otp-emailed", resp.MessageCode)
}

func (s *ServiceSuite) TestSendOtp_GatewayFailure() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		SendOtp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil, sentinel.ErrUnavailable)

	_, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))
}

func (s *ServiceSuite) TestSendOtp_DeclaredDeliveryFailure() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		SendOtp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&gateway.SendOtpResult{Status: "FAILED", MessageCode: "delivery_failed"}, nil, nil)

	resp, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().Error(err, "a declared delivery failure must not be acknowledged as success")
	s.Nil(resp)
	s.True(dErrors.HasCode(err, dErrors.Code("delivery_failed")))
}

func (s *ServiceSuite) TestSendOtp_DeclaredFailureWithoutMessageCode() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		SendOtp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&gateway.SendOtpResult{Status: "FAILED"}, nil, nil)

	_, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))
}

func (s *ServiceSuite) TestSendOtp_FirstBackendErrorSurfaced() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		SendOtp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, []gateway.ServiceError{
			{ErrorCode: "IDA-OTP-001", ErrorMessage: "otp channel blocked"},
			{ErrorCode: "IDA-OTP-002", ErrorMessage: "flooded"},
		}, nil)

	_, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.Code("IDA-OTP-001")))
	s.Contains(err.Error(), "otp channel blocked")
}

func (s *ServiceSuite) TestSendOtp_CompletedTransaction() {
	txn := s.initiatedTxn()
	txn.State = models.StateCodeIssued
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(txn, nil)

	_, err := s.service.SendOtp(s.ctx(), s.otpRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransaction))
}

// --- AuthenticateUser ------------------------------------------------------

func (s *ServiceSuite) kycRequest() models.KycAuthRequest {
	return models.KycAuthRequest{
		TransactionID: "txn-abc",
		IndividualID:  "8267411571",
		ChallengeList: []models.AuthChallenge{{AuthFactorType: "OTP", Challenge: "111111"}},
	}
}

func (s *ServiceSuite) TestAuthenticateUser_UnknownTransaction() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransaction))
}

func (s *ServiceSuite) TestAuthenticateUser_FirstBackendErrorSurfaced() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		VerifyKyc(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, []gateway.ServiceError{
			{ErrorCode: "IDA-MLC-009", ErrorMessage: "invalid challenge"},
			{ErrorCode: "IDA-MLC-002", ErrorMessage: "expired"},
		}, nil)
	s.cache.EXPECT().Put(gomock.Any(), cache.TransactionKey("txn-abc"), gomock.Any()).Return(nil)

	_, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.Code("IDA-MLC-009")))
	s.Contains(err.Error(), "invalid challenge")
}

func (s *ServiceSuite) TestAuthenticateUser_TransportFailureNormalized() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		VerifyKyc(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil, sentinel.ErrUnavailable)
	s.cache.EXPECT().Put(gomock.Any(), cache.TransactionKey("txn-abc"), gomock.Any()).Return(nil)

	_, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))
	s.False(strings.Contains(err.Error(), "unavailable"), "backend internals must not leak")
}

func (s *ServiceSuite) TestAuthenticateUser_BackendPanicNormalized() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		VerifyKyc(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, string, gateway.KycVerification) (*gateway.KycAuthResult, []gateway.ServiceError, error) {
			panic("backend blew up")
		})
	s.cache.EXPECT().Put(gomock.Any(), cache.TransactionKey("txn-abc"), gomock.Any()).Return(nil)

	_, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))
}

func (s *ServiceSuite) TestAuthenticateUser_Success() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		VerifyKyc(gomock.Any(), "test-license", "rp-1", "client-1", gomock.Any()).
		Return(&gateway.KycAuthResult{KycToken: "kyc-token", PartnerSpecificUserToken: "psut"}, nil, nil)

	var stored *models.Transaction
	s.cache.EXPECT().Put(gomock.Any(), cache.TransactionKey("txn-abc"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, txn *models.Transaction) error {
			stored = txn
			return nil
		})

	resp, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().NoError(err)
	s.Equal("txn-abc", resp.TransactionID)

	s.Require().NotNil(stored)
	s.Equal(models.StateAuthenticated, stored.State)
	s.Equal("kyc-token", stored.KycToken)
	s.Equal("psut", stored.PartnerSpecificUserToken)
	s.Equal(testTime.Unix(), stored.AuthTimeSeconds)
}

func (s *ServiceSuite) TestAuthenticateUser_FailureRecordsErrorCodeOnly() {
	// A failed verification records why on the transaction but must not
	// advance the state or attach any token material.
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)
	s.authn.EXPECT().
		VerifyKyc(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, []gateway.ServiceError{{ErrorCode: "IDA-MLC-009", ErrorMessage: "nope"}}, nil)

	var stored *models.Transaction
	s.cache.EXPECT().Put(gomock.Any(), cache.TransactionKey("txn-abc"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, txn *models.Transaction) error {
			stored = txn
			return nil
		})

	_, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().Error(err)

	s.Require().NotNil(stored)
	s.Equal("IDA-MLC-009", stored.Error)
	s.Equal(models.StateInitiated, stored.State)
	s.Empty(stored.KycToken)
	s.Empty(stored.PartnerSpecificUserToken)
	s.Zero(stored.AuthTimeSeconds)
}

func (s *ServiceSuite) TestAuthenticateUser_SuccessClearsRecordedError() {
	txn := s.initiatedTxn()
	txn.Error = "IDA-MLC-009"
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(txn, nil)
	s.authn.EXPECT().
		VerifyKyc(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&gateway.KycAuthResult{KycToken: "kyc-token", PartnerSpecificUserToken: "psut"}, nil, nil)

	var stored *models.Transaction
	s.cache.EXPECT().Put(gomock.Any(), cache.TransactionKey("txn-abc"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, txn *models.Transaction) error {
			stored = txn
			return nil
		})

	_, err := s.service.AuthenticateUser(s.ctx(), s.kycRequest())
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Empty(stored.Error)
	s.Equal(models.StateAuthenticated, stored.State)
}

// --- GetAuthCode -----------------------------------------------------------

func (s *ServiceSuite) authenticatedTxn() *models.Transaction {
	txn := s.initiatedTxn()
	txn.State = models.StateAuthenticated
	txn.KycToken = "kyc-token"
	txn.PartnerSpecificUserToken = "psut"
	txn.AuthTimeSeconds = testTime.Unix()
	return txn
}

func (s *ServiceSuite) TestGetAuthCode_RequiresAuthenticatedState() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.initiatedTxn(), nil)

	_, err := s.service.GetAuthCode(s.ctx(), models.AuthCodeRequest{TransactionID: "txn-abc"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransaction))
}

func (s *ServiceSuite) TestGetAuthCode_FabricatedTransaction() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("fabricated")).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.GetAuthCode(s.ctx(), models.AuthCodeRequest{TransactionID: "fabricated"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransaction))
}

func (s *ServiceSuite) TestGetAuthCode_Success() {
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.authenticatedTxn(), nil)

	var newKey, oldKey string
	var stored *models.Transaction
	s.cache.EXPECT().PutUnderNewKey(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, nk, ok string, txn *models.Transaction) error {
			newKey, oldKey = nk, ok
			stored = txn
			return nil
		})

	resp, err := s.service.GetAuthCode(s.ctx(), models.AuthCodeRequest{
		TransactionID:            "txn-abc",
		AcceptedClaims:           []string{"name"},
		PermittedAuthorizeScopes: []string{"health_service"},
	})
	s.Require().NoError(err)

	s.NotEmpty(resp.Code)
	s.Equal("https://portal.example/cb", resp.RedirectURI)
	s.Equal("nonce-123", resp.Nonce)

	s.Equal(cache.AuthCodeKey(resp.Code), newKey)
	s.Equal(cache.TransactionKey("txn-abc"), oldKey)
	s.Require().NotNil(stored)
	s.Equal(models.StateCodeIssued, stored.State)
	s.Equal(resp.Code, stored.Code)
	s.Equal([]string{"name"}, stored.AcceptedClaims)
	s.Equal([]string{"health_service"}, stored.PermittedScopes)
}

func (s *ServiceSuite) TestGetAuthCode_SecondIssuanceFails() {
	// After re-keying, the transaction id no longer resolves.
	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(s.authenticatedTxn(), nil)
	s.cache.EXPECT().PutUnderNewKey(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.GetAuthCode(s.ctx(), models.AuthCodeRequest{TransactionID: "txn-abc"})
	s.Require().NoError(err)

	s.cache.EXPECT().Get(gomock.Any(), cache.TransactionKey("txn-abc")).Return(nil, sentinel.ErrNotFound)
	_, err = s.service.GetAuthCode(s.ctx(), models.AuthCodeRequest{TransactionID: "txn-abc"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransaction))
}
