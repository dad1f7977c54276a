// Package invitation defines how a candidate is invited to an interview and
// implements the external invitation API client. The LLM drafter lives in
// the agents package and satisfies the same Sender contract.
package invitation

import (
	"context"
	"fmt"
)

// Delivery modes.
const (
	ModeDraft = "draft"
	ModeAPI   = "api"
)

// Request is what every Sender receives.
type Request struct {
	Resume                 string `json:"resume"`
	JD                     string `json:"jd"`
	RecruiterEmail         string `json:"recruiterEmail,omitempty"`
	InterviewerRequirement string `json:"interviewerRequirement,omitempty"`
	CorrelationID          string `json:"-"`
}

// Result covers both delivery modes. A drafter fills Subject and Body; the
// external API fills the acknowledgement fields.
type Result struct {
	Subject  string `json:"subject,omitempty"`
	Body     string `json:"body,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Sender invites a candidate.
type Sender interface {
	Send(ctx context.Context, req Request) (*Result, error)
}

// UpstreamAPIError is a non-2xx answer of the invitation API.
type UpstreamAPIError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("invitation api returned status %d: %s", e.StatusCode, e.Body)
}
