package audit

import (
	"net/http"
	"time"
)

// Outcome classifies how the pipeline disposed of a request
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
	OutcomeLimited Outcome = "limited"
	OutcomeFailed  Outcome = "failed"
)

// OutcomeForStatus derives the audit outcome from a response status code
func OutcomeForStatus(status int) Outcome {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return OutcomeDenied
	case status == http.StatusTooManyRequests:
		return OutcomeLimited
	case status >= 500:
		return OutcomeFailed
	default:
		return OutcomeAllowed
	}
}

// Event is one audit trail entry for a request that passed through the
// gateway. OrgID is taken from the tenant header as presented, so denied
// requests are attributable too.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	OrgID      string    `json:"org_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Outcome    Outcome   `json:"outcome"`
	DurationMS int64     `json:"duration_ms"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Replayed   bool      `json:"replayed,omitempty"`
}
