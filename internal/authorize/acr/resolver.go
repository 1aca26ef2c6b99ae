// Package acr resolves Authentication Context Class References into the
// ordered authentication factor plan the login UI should attempt.
package acr

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"idp-gateway/internal/authorize/models"
)

// mappingDocument is the on-disk shape of the acr↔amr mapping:
//
//	{
//	  "amr":     { "<amr-name>": [ {"type": "...", "count": n, "subTypes": [...]}, ... ] },
//	  "acr_amr": { "<acr-uri>":  [ "<amr-name>", ... ] }
//	}
type mappingDocument struct {
	AMR    map[string][]models.AuthenticationFactor `json:"amr"`
	ACRAMR map[string][]string                      `json:"acr_amr"`
}

// Resolver answers which authentication factor-groups, in what precedence,
// satisfy a set of ACR values. It is built once at startup and read-only
// afterwards.
type Resolver struct {
	amr    map[string][]models.AuthenticationFactor
	acrAMR map[string][]string
}

// NewFromFile loads the mapping document from disk. A missing or malformed
// resource is a configuration error and fatal at startup.
func NewFromFile(path string) (*Resolver, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read acr mapping %s: %w", path, err)
	}
	return New(raw)
}

// New parses a mapping document from raw JSON.
func New(raw []byte) (*Resolver, error) {
	var doc mappingDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse acr mapping: %w", err)
	}
	if len(doc.AMR) == 0 || len(doc.ACRAMR) == 0 {
		return nil, fmt.Errorf("acr mapping needs non-empty amr and acr_amr sections")
	}
	return &Resolver{amr: doc.AMR, acrAMR: doc.ACRAMR}, nil
}

// SupportedACRValues returns all ACR URIs the mapping knows about, sorted for
// stable discovery documents. Never fails once loaded.
func (r *Resolver) SupportedACRValues() []string {
	values := make([]string, 0, len(r.acrAMR))
	for acr := range r.acrAMR {
		values = append(values, acr)
	}
	sort.Strings(values)
	return values
}

// AuthFactors maps each input ACR, in input order, to the ordered
// factor-groups of its AMR chain. Unknown ACR values and unknown AMR names are
// silently skipped; callers rely on output order meaning "try index 0 first".
func (r *Resolver) AuthFactors(acrValues []string) [][]models.AuthenticationFactor {
	result := make([][]models.AuthenticationFactor, 0, len(acrValues))
	for _, acr := range acrValues {
		amrNames, ok := r.acrAMR[acr]
		if !ok {
			continue
		}
		factors := make([]models.AuthenticationFactor, 0, len(amrNames))
		for _, name := range amrNames {
			group, ok := r.amr[name]
			if !ok {
				continue
			}
			factors = append(factors, group...)
		}
		result = append(result, factors)
	}
	return result
}
