package a3s

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Wire content types.
const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
	contentTypeSSE     = "text/event-stream"
)

const (
	ssePrefix    = "data: "
	sseDone      = "[DONE]"
	maxErrorBody = 64 * 1024
)

// httpTransport talks to the agent service over REST, with server-sent
// events for streaming calls. Unary payloads use the configured encoding
// (JSON or msgpack) and responses are decoded by their Content-Type;
// stream events are always JSON-framed.
type httpTransport struct {
	baseURL      string
	apiKey       string
	encoding     string
	client       *http.Client
	streamClient *http.Client
	logger       zerolog.Logger
}

func newHTTPTransport(o clientOptions) *httpTransport {
	client := o.httpClient
	streamClient := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: o.timeout}
		// No client timeout on streams; lifetime is governed by the
		// request context and Cancel.
		streamClient = &http.Client{}
	}
	return &httpTransport{
		baseURL:      strings.TrimSuffix(o.baseURL, "/"),
		apiKey:       o.apiKey,
		encoding:     o.encoding,
		client:       client,
		streamClient: streamClient,
		logger:       *o.logger,
	}
}

func (t *httpTransport) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	var session Session
	if err := t.do(ctx, http.MethodPost, apiPathSessions, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (t *httpTransport) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	if err := t.do(ctx, http.MethodGet, sessionPath(sessionID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (t *httpTransport) ListSessions(ctx context.Context) ([]*Session, error) {
	var sessions []*Session
	if err := t.do(ctx, http.MethodGet, apiPathSessions, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (t *httpTransport) DeleteSession(ctx context.Context, sessionID string) error {
	return t.do(ctx, http.MethodDelete, sessionPath(sessionID), nil, nil)
}

func (t *httpTransport) SendMessage(ctx context.Context, sessionID string, req *SendMessageRequest) (*AgentResponse, error) {
	var resp AgentResponse
	if err := t.do(ctx, http.MethodPost, sessionPath(sessionID)+"/messages", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *httpTransport) StreamMessage(ctx context.Context, sessionID string, req *SendMessageRequest) (StreamHandle, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("a3s: encode request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	path := sessionPath(sessionID) + "/messages/stream"
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(data))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("a3s: build request: %w", err)
	}
	t.setHeaders(ctx, hreq, true)

	resp, err := t.streamClient.Do(hreq)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := t.decodeError(resp)
		resp.Body.Close()
		cancel()
		return nil, err
	}

	t.logger.Debug().Str("path", path).Msg("a3s: stream open")

	h := newSSEHandle(resp.Body, cancel)
	go h.read()
	return h, nil
}

func sessionPath(sessionID string) string {
	return apiPathSessions + "/" + url.PathEscape(sessionID)
}

// do runs one unary call: encode, send, map errors, decode into out.
func (t *httpTransport) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := t.encode(in)
		if err != nil {
			return fmt.Errorf("a3s: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("a3s: build request: %w", err)
	}
	t.setHeaders(ctx, req, false)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	t.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("a3s: request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return t.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return decodeBody(resp, out)
}

func (t *httpTransport) encode(in any) ([]byte, error) {
	if t.encoding == EncodingMsgpack {
		return msgpack.Marshal(in)
	}
	return json.Marshal(in)
}

func (t *httpTransport) setHeaders(ctx context.Context, req *http.Request, stream bool) {
	if !stream && t.encoding == EncodingMsgpack {
		req.Header.Set("Content-Type", contentTypeMsgpack)
	} else {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if stream {
		req.Header.Set("Accept", contentTypeSSE)
	} else {
		req.Header.Set("Accept", contentTypeJSON+", "+contentTypeMsgpack)
	}
	req.Header.Set("User-Agent", "a3s-sdk-go/"+Version)
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	id := ContextRequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", id)
}

// errorEnvelope is the service's error body shape.
type errorEnvelope struct {
	Error APIError `json:"error" msgpack:"error"`
}

func (t *httpTransport) decodeError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		var envelope errorEnvelope
		if decodeBytes(resp.Header.Get("Content-Type"), body, &envelope) == nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func decodeBody(resp *http.Response, out any) error {
	if strings.HasPrefix(resp.Header.Get("Content-Type"), contentTypeMsgpack) {
		return msgpack.NewDecoder(resp.Body).Decode(out)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeBytes(contentType string, data []byte, out any) error {
	if strings.HasPrefix(contentType, contentTypeMsgpack) {
		return msgpack.Unmarshal(data, out)
	}
	return json.Unmarshal(data, out)
}

// sseHandle reads server-sent events from a response body and delivers
// them through one-shot listener registrations, blocking the reader until
// a listener is armed so the consumer's pace bounds the stream.
type sseHandle struct {
	body   io.ReadCloser
	cancel context.CancelFunc

	mu      sync.Mutex
	onItem  func(StreamChunk)
	onEnd   func()
	onError func(error)
	closed  bool

	armed chan struct{}
	done  chan struct{}
}

func newSSEHandle(body io.ReadCloser, cancel context.CancelFunc) *sseHandle {
	return &sseHandle{
		body:   body,
		cancel: cancel,
		armed:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (h *sseHandle) OnItem(fn func(StreamChunk)) {
	h.mu.Lock()
	h.onItem = fn
	h.mu.Unlock()
	h.signalArmed()
}

func (h *sseHandle) OnEnd(fn func()) {
	h.mu.Lock()
	h.onEnd = fn
	h.mu.Unlock()
	h.signalArmed()
}

func (h *sseHandle) OnError(fn func(error)) {
	h.mu.Lock()
	h.onError = fn
	h.mu.Unlock()
	h.signalArmed()
}

// Cancel aborts the underlying request and stops the read loop. Safe to
// call multiple times and from any goroutine.
func (h *sseHandle) Cancel() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.done)
	h.mu.Unlock()
	h.cancel()
}

func (h *sseHandle) signalArmed() {
	select {
	case h.armed <- struct{}{}:
	default:
	}
}

// read consumes the SSE body line by line. data: lines carry JSON-encoded
// chunks; [DONE] or a clean EOF ends the stream, anything else fails it.
func (h *sseHandle) read() {
	defer h.body.Close()

	reader := bufio.NewReader(h.body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				h.emitEnd()
			} else {
				h.emitError(err)
			}
			return
		}
		if !bytes.HasPrefix(line, []byte(ssePrefix)) {
			continue
		}
		payload := bytes.TrimSpace(line[len(ssePrefix):])
		if len(payload) == 0 {
			continue
		}
		if bytes.Equal(payload, []byte(sseDone)) {
			h.emitEnd()
			return
		}
		var chunk StreamChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			h.emitError(fmt.Errorf("a3s: decode stream chunk: %w", err))
			return
		}
		if !h.emitItem(chunk) {
			return
		}
	}
}

// emitItem blocks until an item listener is armed, then fires it and
// consumes the whole armed set. Returns false if the handle was cancelled
// while waiting.
func (h *sseHandle) emitItem(chunk StreamChunk) bool {
	for {
		h.mu.Lock()
		fn := h.onItem
		if fn != nil {
			h.consumeSet()
			h.mu.Unlock()
			fn(chunk)
			return true
		}
		h.mu.Unlock()
		select {
		case <-h.armed:
		case <-h.done:
			return false
		}
	}
}

func (h *sseHandle) emitEnd() {
	for {
		h.mu.Lock()
		fn := h.onEnd
		if fn != nil {
			h.consumeSet()
			h.mu.Unlock()
			fn()
			return
		}
		h.mu.Unlock()
		select {
		case <-h.armed:
		case <-h.done:
			return
		}
	}
}

func (h *sseHandle) emitError(err error) {
	for {
		h.mu.Lock()
		fn := h.onError
		if fn != nil {
			h.consumeSet()
			h.mu.Unlock()
			fn(err)
			return
		}
		h.mu.Unlock()
		select {
		case <-h.armed:
		case <-h.done:
			return
		}
	}
}

// consumeSet clears all three registrations. At most one listener fires
// per armed set; leftover registrations must not fire later. Callers hold
// h.mu.
func (h *sseHandle) consumeSet() {
	h.onItem = nil
	h.onEnd = nil
	h.onError = nil
}
