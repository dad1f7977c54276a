package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSend(t *testing.T) {
	var got apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"email":"ada@example.com","name":"Ada","job_title":"Backend Engineer","user_id":42,"message":"queued"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, WithRecruiterEmail("hr@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := client.Send(context.Background(), Request{
		Resume:                 "resume text",
		JD:                     "jd text",
		InterviewerRequirement: "senior interviewer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := apiRequest{
		RecruiterEmail:         "hr@example.com",
		JDContent:              "jd text",
		InterviewerRequirement: "senior interviewer",
		ResumeText:             "resume text",
	}
	if got != want {
		t.Fatalf("unexpected payload %+v", got)
	}

	if res.Email != "ada@example.com" || res.Name != "Ada" || res.JobTitle != "Backend Engineer" || res.Message != "queued" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.UserID != "42" {
		t.Fatalf("expected numeric user id as string, got %q", res.UserID)
	}
}

func TestClientSendRequestEmailWins(t *testing.T) {
	var got apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"user_id":"u-1"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, WithRecruiterEmail("default@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := client.Send(context.Background(), Request{RecruiterEmail: "lead@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecruiterEmail != "lead@example.com" {
		t.Fatalf("expected request email, got %q", got.RecruiterEmail)
	}
	if res.UserID != "u-1" {
		t.Fatalf("unexpected user id %q", res.UserID)
	}
}

func TestClientSendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("recruiter not found"))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Send(context.Background(), Request{})

	var upstream *UpstreamAPIError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamAPIError, got %v", err)
	}
	if upstream.StatusCode != http.StatusUnprocessableEntity || upstream.Body != "recruiter not found" {
		t.Fatalf("unexpected upstream error %+v", upstream)
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
