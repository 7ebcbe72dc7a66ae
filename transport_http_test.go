package a3s

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestTransport(t *testing.T, baseURL string, opts ...func(*clientOptions)) *httpTransport {
	t.Helper()
	o := clientOptions{baseURL: baseURL, apiKey: "secret"}
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return newHTTPTransport(o)
}

func TestTransportCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sessions", r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get("Content-Type"))
		assert.Equal(t, contentTypeJSON+", "+contentTypeMsgpack, r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "a3s-sdk-go/"+Version, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "agent-large", req.Model)

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(Session{ID: "sess-1", Model: req.Model})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	sess, err := tr.CreateSession(context.Background(), &CreateSessionRequest{Model: "agent-large"})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "agent-large", sess.Model)
}

func TestTransportSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sessions/s1/messages", r.URL.Path)

		var req SendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, RoleUser, req.Messages[0].Role)

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(AgentResponse{
			SessionID:    "s1",
			Message:      Message{Role: RoleAssistant, Content: "hello"},
			FinishReason: FinishReasonStop,
			Usage:        &Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
		})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	resp, err := tr.SendMessage(context.Background(), "s1", &SendMessageRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Message.Content)
	assert.Equal(t, FinishReasonStop, resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
}

func TestTransportMsgpackEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, contentTypeMsgpack, r.Header.Get("Content-Type"))

		var req CreateSessionRequest
		require.NoError(t, msgpack.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "agent-mini", req.Model)

		w.Header().Set("Content-Type", contentTypeMsgpack)
		data, err := msgpack.Marshal(Session{ID: "sess-2", Model: req.Model})
		require.NoError(t, err)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL, func(o *clientOptions) { o.encoding = EncodingMsgpack })
	sess, err := tr.CreateSession(context.Background(), &CreateSessionRequest{Model: "agent-mini"})
	require.NoError(t, err)
	assert.Equal(t, "sess-2", sess.ID)
	assert.Equal(t, "agent-mini", sess.Model)
}

func TestTransportAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("X-Request-ID", "req-7")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"session_not_found","message":"no such session"}}`)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	_, err := tr.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "session_not_found", apiErr.Code)
	assert.Equal(t, "no such session", apiErr.Message)
	assert.Equal(t, "req-7", apiErr.RequestID)
}

func TestTransportAPIErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "backend exploded")
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	err := tr.DeleteSession(context.Background(), "s1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "backend exploded", apiErr.Message)
}

func TestTransportUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	_, err := tr.ListSessions(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusText(http.StatusUnauthorized), apiErr.Message)
}

func TestTransportRequestIDFromContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	ctx := WithContextRequestID(context.Background(), "req-42")
	_, err := tr.ListSessions(ctx)
	require.NoError(t, err)
}

func TestTransportStreamDelivers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions/s1/messages/stream", r.URL.Path)
		assert.Equal(t, contentTypeSSE, r.Header.Get("Accept"))
		assert.Equal(t, contentTypeJSON, r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", contentTypeSSE)
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`data: {"type":"content","sessionId":"s1","content":"hel"}`,
			`data: {"type":"content","sessionId":"s1","content":"lo"}`,
			`data: {"type":"done","sessionId":"s1","finishReason":"stop"}`,
			`data: [DONE]`,
		} {
			_, _ = io.WriteString(w, line+"\n\n")
			flusher.Flush()
		}
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	handle, err := tr.StreamMessage(context.Background(), "s1", &SendMessageRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	stream := NewStream(handle)
	defer stream.Close()

	var types []ChunkType
	var content string
	for stream.Next() {
		chunk := stream.Current()
		types = append(types, chunk.Type)
		content += chunk.Content
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, []ChunkType{ChunkTypeContent, ChunkTypeContent, ChunkTypeDone}, types)
	assert.Equal(t, "hello", content)
}

func TestTransportStreamEndsOnEOF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeSSE)
		_, _ = io.WriteString(w, `data: {"type":"content","sessionId":"s1","content":"x"}`+"\n\n")
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	handle, err := tr.StreamMessage(context.Background(), "s1", &SendMessageRequest{})
	require.NoError(t, err)

	stream := NewStream(handle)
	defer stream.Close()

	require.True(t, stream.Next())
	assert.Equal(t, "x", stream.Current().Content)
	assert.False(t, stream.Next(), "EOF without [DONE] ends the stream normally")
	assert.NoError(t, stream.Err())
}

func TestTransportStreamOpenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"session_not_found","message":"no such session"}}`)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	_, err := tr.StreamMessage(context.Background(), "missing", &SendMessageRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransportStreamDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeSSE)
		_, _ = io.WriteString(w, "data: {not json}\n\n")
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	handle, err := tr.StreamMessage(context.Background(), "s1", &SendMessageRequest{})
	require.NoError(t, err)

	stream := NewStream(handle)
	defer stream.Close()

	assert.False(t, stream.Next())
	require.Error(t, stream.Err())
	assert.Contains(t, stream.Err().Error(), "decode stream chunk")
}

func TestTransportStreamCloseCancelsRequest(t *testing.T) {
	handlerDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(handlerDone)
		w.Header().Set("Content-Type", contentTypeSSE)
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, `data: {"type":"content","sessionId":"s1","content":"x"}`+"\n\n")
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	handle, err := tr.StreamMessage(context.Background(), "s1", &SendMessageRequest{})
	require.NoError(t, err)

	stream := NewStream(handle)
	require.True(t, stream.Next())
	require.NoError(t, stream.Close())

	select {
	case <-handlerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server request was not cancelled by Close")
	}
}
