// Package relay turns an inbound chat body into a single completion call.
//
// A request moves through validation, normalization and one upstream call.
// Every failure is returned as *Error so the HTTP layer can map it to a
// status and an {"error": ...} body without inspecting causes.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/illuzioner/chat-relay/internal/config"
	"github.com/illuzioner/chat-relay/internal/guardrails"
	"github.com/illuzioner/chat-relay/internal/logger"
	"github.com/illuzioner/chat-relay/internal/metrics"
	"github.com/illuzioner/chat-relay/internal/provider"
)

// ChatReply is the success body.
type ChatReply struct {
	Reply string `json:"reply"`
}

// ErrorBody is the failure body.
type ErrorBody struct {
	Error string `json:"error"`
}

const upstreamPrefix = "Error calling OpenAI API: "

var errEmptyResponse = errors.New("provider returned no response")

var defaultGuards = guardrails.New()

// Parse validates a raw request body and returns its messages in order.
func Parse(raw []byte) ([]provider.Message, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, NewError(MalformedRequestError, "Empty request body", nil)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, NewError(MalformedRequestError, "Invalid JSON in request body: "+err.Error(), err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, NewError(SchemaError, "Missing 'messages' field in request", nil)
	}
	field, ok := obj["messages"]
	if !ok {
		return nil, NewError(SchemaError, "Missing 'messages' field in request", nil)
	}
	items, ok := field.([]any)
	if !ok {
		return nil, NewError(SchemaError, "'messages' field must be an array", nil)
	}

	msgs := make([]provider.Message, 0, len(items)+1)
	for i, item := range items {
		m, err := defaultGuards.CheckMessage(i, item)
		if err != nil {
			return nil, NewError(SchemaError, err.Error(), err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// EnsureSystem prepends a system message with prompt unless msgs already
// starts with one. msgs is not modified.
func EnsureSystem(msgs []provider.Message, prompt string) []provider.Message {
	if len(msgs) > 0 && msgs[0].Role == "system" {
		return msgs
	}
	out := make([]provider.Message, 0, len(msgs)+1)
	out = append(out, provider.Message{Role: "system", Content: prompt})
	return append(out, msgs...)
}

// Normalize parses raw and guarantees a leading system message.
func Normalize(raw []byte, prompt string) ([]provider.Message, error) {
	msgs, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return EnsureSystem(msgs, prompt), nil
}

// Options configures a Relay.
type Options struct {
	Provider     provider.Provider
	APIKey       string
	Model        string
	SystemPrompt string
	Logger       *zap.Logger
}

// Relay holds the read-only state shared by all requests.
type Relay struct {
	provider     provider.Provider
	apiKey       string
	model        string
	systemPrompt string
	logger       *zap.Logger
	tracer       trace.Tracer
}

func New(opts Options) *Relay {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = config.DefaultSystemPrompt
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Relay{
		provider:     opts.Provider,
		apiKey:       opts.APIKey,
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		logger:       opts.Logger,
		tracer:       otel.Tracer("github.com/illuzioner/chat-relay/internal/relay"),
	}
}

// Handle runs one chat request end to end.
func (r *Relay) Handle(ctx context.Context, raw []byte) (*ChatReply, error) {
	if r.apiKey == "" {
		return nil, NewError(ConfigurationError, config.CredentialEnv+" not configured", nil)
	}

	msgs, err := Normalize(raw, r.systemPrompt)
	if err != nil {
		return nil, err
	}
	return r.Invoke(ctx, msgs)
}

// Invoke sends already-normalized messages upstream. Exactly one attempt is made.
func (r *Relay) Invoke(ctx context.Context, msgs []provider.Message) (*ChatReply, error) {
	log := logger.FromContext(ctx, r.logger)
	name := r.provider.Name()

	ctx, span := r.tracer.Start(ctx, "relay.upstream", trace.WithAttributes(
		attribute.String("relay.provider", name),
		attribute.String("relay.model", r.model),
		attribute.Int("relay.messages", len(msgs)),
	))
	defer span.End()

	log.Debug("calling upstream",
		zap.String("provider", name),
		zap.String("model", r.model),
		zap.Int("messages", len(msgs)),
	)

	start := time.Now()
	resp, err := r.provider.Chat(ctx, &provider.ChatRequest{Model: r.model, Messages: msgs})
	elapsed := time.Since(start)
	if err == nil && resp == nil {
		err = errEmptyResponse
	}

	var usage *provider.Usage
	if resp != nil {
		usage = resp.Usage
	}
	metrics.ObserveUpstream(name, r.model, elapsed, usage, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("upstream call failed",
			zap.String("provider", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, NewError(UpstreamError, upstreamPrefix+err.Error(), err)
	}

	log.Debug("upstream call succeeded", zap.Duration("elapsed", elapsed))
	return &ChatReply{Reply: resp.Content}, nil
}
