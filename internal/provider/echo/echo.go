package echo

import (
	"context"

	"github.com/illuzioner/chat-relay/internal/provider"
)

// Provider responds by echoing the last message. It never touches the network.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "echo" }

func (p *Provider) Chat(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp := &provider.ChatResponse{Model: req.Model}
	if len(req.Messages) == 0 {
		return resp, nil
	}
	last := req.Messages[len(req.Messages)-1]
	resp.Content = "Echo: " + last.Content
	return resp, nil
}
