package a3s

import "context"

// Transport is the session-oriented RPC boundary to the agent service:
// unary request/response calls plus server-streaming message delivery,
// keyed by session id. Implementations must be safe for concurrent use.
//
// The default implementation speaks REST with server-sent events; replace
// it with WithTransport, e.g. to fake the service in tests.
type Transport interface {
	CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListSessions(ctx context.Context) ([]*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SendMessage(ctx context.Context, sessionID string, req *SendMessageRequest) (*AgentResponse, error)
	StreamMessage(ctx context.Context, sessionID string, req *SendMessageRequest) (StreamHandle, error)
}
