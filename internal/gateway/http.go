package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"idp-gateway/internal/platform/config"
	"idp-gateway/pkg/platform/sentinel"
)

// HTTPAuthenticator talks to the authentication backend over JSON HTTP.
// Every call is bounded by a per-call timeout and a weighted semaphore so
// a slow backend cannot exhaust the server's goroutines or sockets.
type HTTPAuthenticator struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	sem     *semaphore.Weighted
	logger  *slog.Logger
	observe func(time.Duration)
}

// HTTPOption configures an HTTPAuthenticator.
type HTTPOption func(*HTTPAuthenticator)

// WithHTTPClient overrides the underlying HTTP client (used in tests).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(a *HTTPAuthenticator) {
		if client != nil {
			a.client = client
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(a *HTTPAuthenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLatencyObserver registers a callback invoked with the duration of
// every backend round trip.
func WithLatencyObserver(observe func(time.Duration)) HTTPOption {
	return func(a *HTTPAuthenticator) {
		if observe != nil {
			a.observe = observe
		}
	}
}

// NewHTTPAuthenticator constructs a backend client from gateway config.
func NewHTTPAuthenticator(cfg config.GatewayConfig, opts ...HTTPOption) *HTTPAuthenticator {
	a := &HTTPAuthenticator{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout},
		sem:     semaphore.NewWeighted(max(cfg.MaxConcurrency, 1)),
		logger:  slog.Default(),
		observe: func(time.Duration) {},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// envelope is the backend's response wrapper. A populated errors list means
// the backend processed the request and rejected it.
type envelope struct {
	Response json.RawMessage `json:"response"`
	Errors   []ServiceError  `json:"errors"`
}

func (a *HTTPAuthenticator) SendOtp(ctx context.Context, licenseKey, relyingPartyID, clientID string, dispatch OtpDispatch) (*SendOtpResult, []ServiceError, error) {
	env, err := a.post(ctx, fmt.Sprintf("%s/v1/otp/%s/%s/%s", a.baseURL, licenseKey, relyingPartyID, clientID), dispatch)
	if err != nil {
		return nil, nil, err
	}
	if len(env.Errors) > 0 {
		return nil, env.Errors, nil
	}
	var result SendOtpResult
	if err := json.Unmarshal(env.Response, &result); err != nil {
		return nil, nil, fmt.Errorf("decode otp response: %w", err)
	}
	return &result, nil, nil
}

func (a *HTTPAuthenticator) VerifyKyc(ctx context.Context, licenseKey, relyingPartyID, clientID string, verification KycVerification) (*KycAuthResult, []ServiceError, error) {
	env, err := a.post(ctx, fmt.Sprintf("%s/v1/kyc-auth/%s/%s/%s", a.baseURL, licenseKey, relyingPartyID, clientID), verification)
	if err != nil {
		return nil, nil, err
	}
	if len(env.Errors) > 0 {
		return nil, env.Errors, nil
	}
	var result KycAuthResult
	if err := json.Unmarshal(env.Response, &result); err != nil {
		return nil, nil, fmt.Errorf("decode kyc response: %w", err)
	}
	return &result, nil, nil
}

func (a *HTTPAuthenticator) post(ctx context.Context, url string, body any) (*envelope, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("gateway saturated: %w", sentinel.ErrUnavailable)
	}
	defer a.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	a.observe(time.Since(start))
	if err != nil {
		a.logger.Error("authentication backend unreachable", "url", url, "error", err)
		return nil, fmt.Errorf("call authentication backend: %w: %w", err, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("authentication backend returned non-200", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("authentication backend status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode gateway envelope: %w", err)
	}
	return &env, nil
}
