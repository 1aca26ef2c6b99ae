package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring and forensics.
	// These feed into SIEM systems and alerting pipelines.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational visibility.
	// These can be sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category      EventCategory `json:"category"`
	Timestamp     time.Time     `json:"timestamp"`
	Action        string        `json:"action"`
	TransactionID string        `json:"transactionId,omitempty"`
	ClientID      string        `json:"clientId,omitempty"`
	RelyingParty  string        `json:"relyingParty,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	RequestID     string        `json:"requestId,omitempty"`
	ClientIP      string        `json:"clientIp,omitempty"`
	UserAgent     string        `json:"userAgent,omitempty"`
	Device        string        `json:"device,omitempty"`
}

type AuditEvent string

const (
	EventTransactionStarted AuditEvent = "transaction_started"
	EventOtpRequested       AuditEvent = "otp_requested"
	EventAuthSucceeded      AuditEvent = "auth_succeeded"
	EventAuthFailed         AuditEvent = "auth_failed"
	EventCodeIssued         AuditEvent = "code_issued"
	EventTokenExchanged     AuditEvent = "token_exchanged"
	EventTokenReplayed      AuditEvent = "token_replayed"
)

// eventCategories maps each audit event to its category.
// Compliance: legal/regulatory significance, long retention required.
// Security: security monitoring, SIEM integration, alerting.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	EventAuthSucceeded:  CategoryCompliance,
	EventCodeIssued:     CategoryCompliance,
	EventTokenExchanged: CategoryCompliance,

	EventAuthFailed:    CategorySecurity,
	EventTokenReplayed: CategorySecurity,

	EventTransactionStarted: CategoryOperations,
	EventOtpRequested:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
