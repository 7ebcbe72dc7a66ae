package a3s

import "github.com/a3s-lab/a3s-sdk-go/internal/config"

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

// Client defaults. Base URL, timeout and encoding can also come from TOML
// configuration files and A3S_-prefixed environment variables; see
// WithConfigFile.
const (
	// DefaultBaseURL is the service endpoint used when none is configured.
	DefaultBaseURL = config.DefaultBaseURL

	// DefaultTimeout bounds unary calls made with the default HTTP client.
	// Streaming calls are exempt and run until the stream ends or the
	// context is cancelled.
	DefaultTimeout = config.DefaultTimeout

	// EnvPrefix namespaces the environment variables read during
	// configuration loading, e.g. A3S_BASE_URL.
	EnvPrefix = config.EnvPrefix
)

// Wire encodings for unary calls. Streaming responses are always
// JSON-framed server-sent events.
const (
	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)

// Service API paths.
const apiPathSessions = "/v1/sessions"
