// trigger/handler.go
package trigger

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/onlyoffice/signupgate/gate"
	"go.uber.org/zap"
)

// Outcome values reported to observers and logs.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Observer is notified once per decision. reason is empty on accept.
type Observer func(outcome string, reason gate.Reason)

// Option configures a Handler.
type Option func(*Handler)

// WithObserver registers fn to be called after every decision.
func WithObserver(fn Observer) Option {
	return func(h *Handler) {
		h.observe = fn
	}
}

// Handler runs the domain gate for Cognito PreSignUp invocations and logs
// each decision. It holds no per-request state and is safe for concurrent use.
type Handler struct {
	logger  *zap.Logger
	observe Observer
}

// New returns a Handler. A nil logger disables logging.
func New(logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle is the Lambda entrypoint. On accept it returns raw unchanged so
// Cognito continues the signup with exactly what it sent.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	ev, err := Decode(raw)
	if err != nil {
		h.record(Event{}, err)
		return nil, err
	}
	accepted, err := gate.Evaluate(ev)
	h.record(ev, err)
	if err != nil {
		return nil, err
	}
	return accepted.Raw, nil
}

// HandlePreSignup is the typed variant for callers holding an
// events.CognitoEventUserPoolsPreSignup.
func (h *Handler) HandlePreSignup(ctx context.Context, ev events.CognitoEventUserPoolsPreSignup) (events.CognitoEventUserPoolsPreSignup, error) {
	out, err := gate.Evaluate(PreSignup(ev))
	h.record(Event{
		TriggerSource: ev.TriggerSource,
		UserPoolID:    ev.UserPoolID,
		UserName:      ev.UserName,
		attrs:         stringAttrs(ev.Request.UserAttributes),
	}, err)
	return events.CognitoEventUserPoolsPreSignup(out), err
}

func (h *Handler) record(ev Event, err error) {
	outcome := OutcomeAccepted
	reason := gate.ReasonOf(err)
	if err != nil {
		outcome = OutcomeRejected
	}

	fields := []zap.Field{
		zap.String("outcome", outcome),
		zap.String("trigger_source", ev.TriggerSource),
		zap.String("user_pool_id", ev.UserPoolID),
		zap.String("email_domain", emailDomain(ev)),
	}
	if err != nil {
		h.logger.Info("signup rejected", append(fields, zap.String("reason", string(reason)))...)
	} else {
		h.logger.Info("signup accepted", fields...)
	}

	if h.observe != nil {
		h.observe(outcome, reason)
	}
}

func stringAttrs(m map[string]string) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
