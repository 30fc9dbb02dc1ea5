// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package demo

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/NVIDIA/logfan/pkg/defaults"
	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/logging"
	"github.com/NVIDIA/logfan/pkg/serializer"
	"github.com/NVIDIA/logfan/pkg/server"
	"github.com/google/uuid"
)

const (
	// LogRoute is the route pattern served by HandleLog.
	LogRoute = "GET /log/{message}"

	// SessionIDProperty names the log property that groups the events of one request.
	SessionIDProperty = "SessionId"

	// FailureMessage is the message of the failure attached to the Fatal event.
	FailureMessage = "Something bad just happened..."
)

// Message templates for the three demo events. The user-supplied message is
// bound as a property rather than spliced into the template, so braces in it
// are never mistaken for placeholders.
const (
	infoTemplate  = "Testing INF: {Message}"
	errorTemplate = "Testing ERR: {Message}"
	fatalTemplate = "Testing FTL: {Message}"
)

// SimulatedFailure is the error attached to the Fatal demo event. It carries
// the stack captured where it was raised.
type SimulatedFailure struct {
	cause *errors.StructuredError
}

// NewSimulatedFailure returns a failure with message, capturing the caller's stack.
func NewSimulatedFailure(message string) *SimulatedFailure {
	return &SimulatedFailure{cause: errors.New(errors.ErrCodeInternal, message)}
}

func (e *SimulatedFailure) Error() string { return e.cause.Message }

// StackTrace returns the stack captured when the failure was raised.
func (e *SimulatedFailure) StackTrace() string { return e.cause.StackTrace() }

// LogResponse is returned by HandleLog.
type LogResponse struct {
	SessionID string   `json:"sessionId" yaml:"sessionId"`
	Source    string   `json:"source,omitempty" yaml:"source,omitempty"`
	Messages  []string `json:"messages" yaml:"messages"`
}

// Handler serves the demo routes.
type Handler struct {
	logger       *slog.Logger
	newSessionID func() string
}

// NewHandler returns a handler logging through logger.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		newSessionID: newSessionID,
	}
}

func newSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Routes returns the handlers to register on the server.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		LogRoute: h.HandleLog,
	}
}

// Announce logs the startup notice once the pipeline is wired.
func (h *Handler) Announce(ctx context.Context) {
	h.logger.InfoContext(ctx, "Added Slack!")
}

// HandleLog logs the three demo events for the message path segment and
// responds 202 with the session id and the rendered messages.
func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	message := r.PathValue("message")
	if message == "" {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"message path segment is required", false, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.LogHandlerTimeout)
	defer cancel()

	sessionID := h.newSessionID()
	ctx = logging.WithProperty(ctx, SessionIDProperty, sessionID)

	logger := h.logger
	source := r.URL.Query().Get("source")
	if source != "" {
		logger = logging.ForSource(logger, source)
	}

	logger.InfoContext(ctx, infoTemplate, "Message", message)
	logger.ErrorContext(ctx, errorTemplate, "Message", message)
	logger.Log(ctx, event.LevelFatal, fatalTemplate,
		"Message", message,
		event.FailureKey, NewSimulatedFailure(FailureMessage),
	)

	if err := ctx.Err(); err != nil {
		server.WriteErrorFromErr(w, r,
			errors.Wrap(errors.ErrCodeTimeout, "logging did not complete in time", err),
			"logging did not complete in time", map[string]any{"sessionId": sessionID})
		return
	}

	serializer.RespondJSON(w, http.StatusAccepted, LogResponse{
		SessionID: sessionID,
		Source:    source,
		Messages: []string{
			"Testing INF: " + message,
			"Testing ERR: " + message,
			"Testing FTL: " + message,
		},
	})
}
