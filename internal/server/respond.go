package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/invitation"
	"github.com/spigell/hire-agent/internal/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 5 << 20

// Response is the envelope of every API reply.
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId"`
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, r, fmt.Errorf("%w: request body: %v", agents.ErrInvalidInput, err))
		return false
	}

	return true
}

func (h *handler) ok(w http.ResponseWriter, r *http.Request, data any) {
	h.write(w, r, http.StatusOK, Response{Success: true, Data: data, RequestID: RequestID(r.Context())})
}

// fail maps err onto a status code and writes the error envelope.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}

	log := h.logger.With(logger.StringFields(logger.StringField{Key: logger.FieldCorrelationID, Value: RequestID(r.Context())})...)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}

	h.write(w, r, status, Response{Error: msg, RequestID: RequestID(r.Context())})
}

func statusFor(err error) int {
	var upstream *invitation.UpstreamAPIError

	switch {
	case errors.Is(err, agents.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case ai.IsProviderFailure(err), errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) write(w http.ResponseWriter, r *http.Request, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", agents.ErrInvalidInput, field)
}
