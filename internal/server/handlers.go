package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/invitation"
)

type parseJDRequest struct {
	JDText string `json:"jdText"`
}

type parseResumeRequest struct {
	ResumeText string `json:"resumeText"`
}

type matchRequest struct {
	Resume string `json:"resume"`
	JD     string `json:"jd"`
}

type evaluateRequest struct {
	Resume          string `json:"resume"`
	JD              string `json:"jd"`
	InterviewScript string `json:"interviewScript"`
}

type consultRequest struct {
	History []ai.Message   `json:"history"`
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

type titleRequest struct {
	Role           string `json:"role"`
	Requirements   string `json:"requirements"`
	JobDescription string `json:"jobDescription"`
	Language       string `json:"language"`
}

type draftResponse struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

type titleResponse struct {
	Title string `json:"title"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	h.ok(w, r, healthResponse{Status: "ok", Provider: h.deps.Provider, Model: h.deps.Model})
}

func (h *handler) parseJD(w http.ResponseWriter, r *http.Request) {
	var req parseJDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.JDText) == "" {
		h.fail(w, r, missing("jdText"))
		return
	}

	jd, err := h.deps.JDParser.Parse(r.Context(), req.JDText, RequestID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jd)
}

func (h *handler) parseResume(w http.ResponseWriter, r *http.Request) {
	var req parseResumeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		h.fail(w, r, missing("resumeText"))
		return
	}

	resume, err := h.deps.ResumeParser.Parse(r.Context(), req.ResumeText, RequestID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, resume)
}

func (h *handler) match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := requireAll("resume", req.Resume, "jd", req.JD); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.deps.Matcher.Match(r.Context(), req.Resume, req.JD, RequestID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, res)
}

func (h *handler) invite(w http.ResponseWriter, r *http.Request) {
	var req invitation.Request
	if !h.decode(w, r, &req) {
		return
	}
	if err := requireAll("resume", req.Resume, "jd", req.JD); err != nil {
		h.fail(w, r, err)
		return
	}
	req.CorrelationID = RequestID(r.Context())

	res, err := h.deps.Inviter.Send(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, res)
}

func (h *handler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := requireAll("resume", req.Resume, "jd", req.JD, "interviewScript", req.InterviewScript); err != nil {
		h.fail(w, r, err)
		return
	}

	eval, err := h.deps.Evaluator.Evaluate(r.Context(), req.Resume, req.JD, req.InterviewScript, RequestID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, eval)
}

func (h *handler) consult(w http.ResponseWriter, r *http.Request) {
	var req consultRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.fail(w, r, missing("message"))
		return
	}

	hints, err := agents.DecodeConsultantContext(req.Context)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	reply, err := h.deps.Consultant.Chat(r.Context(), agents.ConsultantInput{
		History:       req.History,
		Message:       req.Message,
		Context:       hints,
		CorrelationID: RequestID(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, reply)
}

func (h *handler) draftJD(w http.ResponseWriter, r *http.Request) {
	var req agents.DraftRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.CorrelationID = RequestID(r.Context())

	markdown, err := h.deps.JDWriter.Write(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var html bytes.Buffer
	if err := h.markdown.Convert([]byte(markdown), &html); err != nil {
		h.fail(w, r, fmt.Errorf("render markdown: %w", err))
		return
	}

	h.ok(w, r, draftResponse{Markdown: markdown, HTML: html.String()})
}

func (h *handler) suggestTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if !h.decode(w, r, &req) {
		return
	}

	title, err := h.deps.Titles.Suggest(r.Context(), agents.DraftRequest{
		Title:          req.Role,
		Requirements:   req.Requirements,
		JobDescription: req.JobDescription,
		Language:       req.Language,
		CorrelationID:  RequestID(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, titleResponse{Title: title})
}

// requireAll takes name/value pairs and reports the first blank value.
func requireAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return missing(pairs[i])
		}
	}
	return nil
}
