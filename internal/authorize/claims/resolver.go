// Package claims merges scope-derived claims with explicitly requested claims
// and resolves the essential ACR claim for a transaction.
package claims

import (
	"strings"

	"idp-gateway/internal/authorize/models"
	dErrors "idp-gateway/pkg/domain-errors"
)

// Resolver builds the authoritative claim set for a transaction from the
// static scope→claim-names table.
type Resolver struct {
	scopeClaims map[string][]string
}

// NewResolver wires the scope→claim-names table. The table is read-only for
// the resolver's lifetime.
func NewResolver(scopeClaims map[string][]string) *Resolver {
	return &Resolver{scopeClaims: scopeClaims}
}

// Resolve produces the resolved claim set for a request.
//
// Registration is the hard ceiling: only claim names in registeredClaims can
// appear in the output. Explicitly requested entries are copied verbatim
// (including a nil detail); claim names implied by scope alone enter as nil
// details, meaning voluntary with no value constraint.
func (r *Resolver) Resolve(requestedScope string, requested *models.Claims, registeredClaims []string) (models.Claims, error) {
	resolved := models.NewClaims()

	scopes := strings.Fields(requestedScope)
	hasUserInfoRequest := requested != nil && requested.UserInfo != nil

	// The claims request parameter is only honored for OIDC-flavored requests.
	if hasUserInfoRequest && !contains(scopes, models.ScopeOpenID) {
		return models.Claims{}, dErrors.New(dErrors.CodeInvalidScope,
			"claims request parameter requires the openid scope")
	}

	var scopeDerived []string
	for _, scope := range scopes {
		scopeDerived = append(scopeDerived, r.scopeClaims[scope]...)
	}

	for _, name := range registeredClaims {
		if hasUserInfoRequest {
			if detail, ok := requested.UserInfo[name]; ok {
				resolved.UserInfo[name] = detail
				continue
			}
		}
		if contains(scopeDerived, name) {
			resolved.UserInfo[name] = nil
		}
	}
	return resolved, nil
}

// ResolveACR picks the ACR values for a transaction, first match wins:
// explicit claims request, then the acr_values parameter, then the full
// registered list. The result is always essential.
func ResolveACR(registeredACRs []string, acrValuesParam string, requested *models.Claims) (*models.ClaimDetail, error) {
	if len(registeredACRs) == 0 {
		return nil, dErrors.New(dErrors.CodeNoACRRegistered,
			"relying party has no registered ACR values")
	}

	if requested != nil && requested.IDToken != nil {
		if detail := requested.IDToken[models.ClaimACR]; detail != nil {
			if filtered := intersect(detail.Values, registeredACRs); len(filtered) > 0 {
				return &models.ClaimDetail{Essential: true, Values: filtered}, nil
			}
		}
	}

	if filtered := intersect(strings.Fields(acrValuesParam), registeredACRs); len(filtered) > 0 {
		return &models.ClaimDetail{Essential: true, Values: filtered}, nil
	}

	values := make([]string, len(registeredACRs))
	copy(values, registeredACRs)
	return &models.ClaimDetail{Essential: true, Values: values}, nil
}

// intersect keeps the entries of values that appear in allowed, preserving
// the order of values.
func intersect(values, allowed []string) []string {
	var out []string
	for _, v := range values {
		if contains(allowed, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
