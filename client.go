package a3s

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/a3s-lab/a3s-sdk-go/internal/usage"
)

// Client is a typed handle on the remote agent service. It wraps a
// [Transport] with message normalization, OpenAI-schema acceptance and
// usage accounting. Safe for concurrent use.
type Client struct {
	transport Transport
	model     string
	logger    zerolog.Logger
	usage     *usage.Tracker
}

// NewClient builds a client from functional options layered over TOML file
// and environment configuration. Explicit options win over configuration
// values, which win over defaults.
func NewClient(opts ...ClientOption) (*Client, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.encoding != EncodingJSON && o.encoding != EncodingMsgpack {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrInvalidConfig, o.encoding)
	}

	transport := o.transport
	if transport == nil {
		transport = newHTTPTransport(o)
	}

	pricing := make(map[string]usage.Pricing, len(o.pricing))
	for model, p := range o.pricing {
		pricing[model] = usage.Pricing{InputPerMTok: p.InputPerMTok, OutputPerMTok: p.OutputPerMTok}
	}

	return &Client{
		transport: transport,
		model:     o.model,
		logger:    *o.logger,
		usage:     usage.NewTracker(pricing),
	}, nil
}

// CreateSession creates a new session. The client's default model applies
// when the request does not name one.
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	r := CreateSessionRequest{}
	if req != nil {
		r = *req
	}
	if r.Model == "" {
		r.Model = c.model
	}
	return c.transport.CreateSession(ctx, &r)
}

// GetSession fetches a session by id.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return c.transport.GetSession(ctx, sessionID)
}

// ListSessions lists the sessions visible to the caller.
func (c *Client) ListSessions(ctx context.Context) ([]*Session, error) {
	return c.transport.ListSessions(ctx)
}

// DeleteSession deletes a session by id.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.transport.DeleteSession(ctx, sessionID)
}

// SendMessage normalizes msgs into the native schema and delivers them to
// the session, blocking until the agent's complete response arrives.
// Messages may mix native Message values with any other MessageParam
// implementation, such as the openai package's ChatMessage.
func (c *Client) SendMessage(ctx context.Context, sessionID string, msgs ...MessageParam) (*AgentResponse, error) {
	resp, err := c.transport.SendMessage(ctx, sessionID, c.messageRequest(msgs))
	if err != nil {
		return nil, err
	}
	c.recordUsage(resp.Usage)
	return resp, nil
}

// StreamMessage is the streaming variant of SendMessage. Close the
// returned stream when abandoning it early; it releases itself after a
// normal end or a transport error.
func (c *Client) StreamMessage(ctx context.Context, sessionID string, msgs ...MessageParam) (*Stream, error) {
	handle, err := c.transport.StreamMessage(ctx, sessionID, c.messageRequest(msgs))
	if err != nil {
		return nil, err
	}
	return NewStream(&meteredHandle{handle: handle, record: c.recordUsage}), nil
}

// UsageReport summarizes the tokens and cost a client has accumulated.
type UsageReport struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	Cost             decimal.Decimal
}

// UsageReport returns the cumulative usage recorded across this client's
// calls. Cost stays zero for models without pricing; see WithPricing.
func (c *Client) UsageReport() UsageReport {
	prompt, completion, total := c.usage.Totals()
	return UsageReport{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
		Cost:             c.usage.Cost(),
	}
}

func (c *Client) messageRequest(msgs []MessageParam) *SendMessageRequest {
	return &SendMessageRequest{
		Messages: Normalize(msgs),
		Model:    c.model,
	}
}

func (c *Client) recordUsage(u *Usage) {
	if u == nil {
		return
	}
	c.usage.Record(c.model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// meteredHandle forwards handle callbacks unchanged while recording usage
// carried by chunks.
type meteredHandle struct {
	handle StreamHandle
	record func(*Usage)
}

func (m *meteredHandle) OnItem(fn func(StreamChunk)) {
	m.handle.OnItem(func(chunk StreamChunk) {
		if chunk.Usage != nil {
			m.record(chunk.Usage)
		}
		fn(chunk)
	})
}

func (m *meteredHandle) OnEnd(fn func())        { m.handle.OnEnd(fn) }
func (m *meteredHandle) OnError(fn func(error)) { m.handle.OnError(fn) }
func (m *meteredHandle) Cancel()                { m.handle.Cancel() }
