package agents

import (
	"context"
	_ "embed"
	"strings"

	"github.com/spigell/hire-agent/internal/invitation"
)

//go:embed prompts/invitation.md
var invitationPrompt string

const defaultInvitationSubject = "Interview Invitation"

// InvitationEmail is a drafted invitation.
type InvitationEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// InvitationInput pairs the candidate's resume with the job description.
type InvitationInput struct {
	Resume string
	JD     string
}

type invitationDefinition struct{}

func (invitationDefinition) Name() string         { return "InviteAgent" }
func (invitationDefinition) Instructions() string { return invitationPrompt }

func (invitationDefinition) FormatInput(in InvitationInput) string {
	return "## Candidate's Resume:\n" + in.Resume +
		"\n\n## Job Description:\n" + in.JD +
		"\n\nPlease generate a professional interview invitation email for this candidate."
}

// ParseOutput keeps the whole reply as the body when it is not JSON.
func (invitationDefinition) ParseOutput(raw string, _ InvitationInput) InvitationEmail {
	return InvitationEmail{Subject: defaultInvitationSubject, Body: raw}
}

// InvitationDrafter writes invitation emails with the model. It implements
// invitation.Sender for the draft delivery mode.
type InvitationDrafter struct {
	runner *Runner
}

var _ invitation.Sender = (*InvitationDrafter)(nil)

func NewInvitationDrafter(runner *Runner) *InvitationDrafter {
	return &InvitationDrafter{runner: runner}
}

// Draft replies in the language of the job description.
func (d *InvitationDrafter) Draft(ctx context.Context, resume, jd, correlationID string) (*InvitationEmail, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jd) == "" {
		return nil, ErrInvalidInput
	}

	email, err := ExecuteJSON[InvitationInput, InvitationEmail](ctx, d.runner, invitationDefinition{}, InvitationInput{Resume: resume, JD: jd}, Call{
		LocaleSource:  jd,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(email.Subject) == "" {
		email.Subject = defaultInvitationSubject
	}

	return &email, nil
}

func (d *InvitationDrafter) Send(ctx context.Context, req invitation.Request) (*invitation.Result, error) {
	email, err := d.Draft(ctx, req.Resume, req.JD, req.CorrelationID)
	if err != nil {
		return nil, err
	}

	return &invitation.Result{Subject: email.Subject, Body: email.Body}, nil
}
