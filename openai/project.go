package openai

import (
	"time"

	a3s "github.com/a3s-lab/a3s-sdk-go"
)

const (
	// DefaultModel labels projected envelopes when no model is configured.
	DefaultModel = "unknown"
	// DefaultIDPrefix prefixes session ids to synthesize completion ids.
	DefaultIDPrefix = "chatcmpl-"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// ProjectorOption configures a Projector.
type ProjectorOption func(*projectorOptions)

type projectorOptions struct {
	model    string
	idPrefix string
}

func (o *projectorOptions) applyDefaults() {
	if o.model == "" {
		o.model = DefaultModel
	}
	if o.idPrefix == "" {
		o.idPrefix = DefaultIDPrefix
	}
}

// WithModel sets the model label stamped on projected envelopes.
func WithModel(model string) ProjectorOption {
	return func(o *projectorOptions) { o.model = model }
}

// WithIDPrefix overrides the prefix used to synthesize envelope ids from
// session ids.
func WithIDPrefix(prefix string) ProjectorOption {
	return func(o *projectorOptions) { o.idPrefix = prefix }
}

// Projector renders native responses as OpenAI chat completion
// envelopes. It is stateless and safe for concurrent use.
type Projector struct {
	opts projectorOptions
}

// NewProjector builds a projector with the given options.
func NewProjector(opts ...ProjectorOption) *Projector {
	var o projectorOptions
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return &Projector{opts: o}
}

// Completion projects a completed native response into a non-streaming
// chat completion with a single choice.
func (p *Projector) Completion(resp *a3s.AgentResponse) ChatCompletion {
	msg := MessageFromNative(resp.Message)
	for _, tc := range resp.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCallFromNative(tc))
	}
	return ChatCompletion{
		ID:      p.opts.idPrefix + resp.SessionID,
		Object:  ObjectChatCompletion,
		Created: timeNow().Unix(),
		Model:   p.opts.model,
		Choices: []Choice{{
			Index:        0,
			Message:      msg,
			FinishReason: FinishReasonFromNative(resp.FinishReason),
		}},
		Usage: UsageFromNative(resp.Usage),
	}
}

// Chunk projects one native stream chunk into a streaming envelope.
// Content chunks set only the delta's content and tool call chunks emit a
// single-element tool call delta; every other chunk type carries an empty
// delta. A done chunk without an explicit finish reason finishes "stop".
func (p *Projector) Chunk(chunk a3s.StreamChunk) ChatCompletionChunk {
	var delta ChunkDelta
	switch chunk.Type {
	case a3s.ChunkTypeContent:
		content := chunk.Content
		delta.Content = &content
	case a3s.ChunkTypeToolCall:
		if chunk.ToolCall != nil {
			tc := ToolCallFromNative(*chunk.ToolCall)
			delta.ToolCalls = []ToolCallDelta{{
				Index:    0,
				ID:       tc.ID,
				Type:     tc.Type,
				Function: &tc.Function,
			}}
		}
	}

	var finish *FinishReason
	switch {
	case chunk.FinishReason != "":
		finish = FinishReasonFromNative(chunk.FinishReason)
	case chunk.Type == a3s.ChunkTypeDone:
		stop := FinishReasonStop
		finish = &stop
	}

	return ChatCompletionChunk{
		ID:      p.opts.idPrefix + chunk.SessionID,
		Object:  ObjectChatCompletionChunk,
		Created: timeNow().Unix(),
		Model:   p.opts.model,
		Choices: []ChunkChoice{{
			Index:        0,
			Delta:        delta,
			FinishReason: finish,
		}},
		Usage: UsageFromNative(chunk.Usage),
	}
}

// Stream wraps a native stream so iteration yields projected chunks.
func (p *Projector) Stream(s *a3s.Stream) *ChunkStream {
	return &ChunkStream{stream: s, projector: p}
}

// nativeStream is the pull surface ChunkStream consumes.
type nativeStream interface {
	Next() bool
	Current() a3s.StreamChunk
	Err() error
	Close() error
}

// ChunkStream iterates a native stream as chat.completion.chunk
// envelopes. It carries the same single-consumer contract as the
// underlying a3s Stream.
type ChunkStream struct {
	stream    nativeStream
	projector *Projector
	current   ChatCompletionChunk
}

// Next advances to the next projected chunk. It reports false when the
// stream ends or fails; consult Err afterwards.
func (cs *ChunkStream) Next() bool {
	if !cs.stream.Next() {
		return false
	}
	cs.current = cs.projector.Chunk(cs.stream.Current())
	return true
}

// Current returns the chunk produced by the last successful Next.
func (cs *ChunkStream) Current() ChatCompletionChunk { return cs.current }

// Err reports the transport error that ended iteration, if any.
func (cs *ChunkStream) Err() error { return cs.stream.Err() }

// Close releases the underlying stream. Safe to call more than once.
func (cs *ChunkStream) Close() error { return cs.stream.Close() }
