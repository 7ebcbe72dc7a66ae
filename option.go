package a3s

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/a3s-lab/a3s-sdk-go/internal/config"
)

// ClientOption configures a Client via the functional options pattern.
type ClientOption func(*clientOptions)

// ModelPricing prices a model's tokens in USD per million tokens.
type ModelPricing struct {
	InputPerMTok  decimal.Decimal
	OutputPerMTok decimal.Decimal
}

// clientOptions holds all configurable fields set via ClientOption functions.
type clientOptions struct {
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	encoding    string
	httpClient  *http.Client
	transport   Transport
	logger      *zerolog.Logger
	configFiles []string
	pricing     map[string]ModelPricing
}

// applyConfig fills fields left unset by explicit options from loaded
// configuration; explicit options always win.
func (o *clientOptions) applyConfig(cfg *config.Config) {
	if o.baseURL == "" {
		o.baseURL = cfg.BaseURL
	}
	if o.apiKey == "" {
		o.apiKey = cfg.APIKey
	}
	if o.model == "" {
		o.model = cfg.Model
	}
	if o.timeout == 0 {
		o.timeout = cfg.Timeout
	}
	if o.encoding == "" {
		o.encoding = cfg.Encoding
	}
	if o.logger == nil && cfg.LogLevel != "" {
		level, _ := zerolog.ParseLevel(cfg.LogLevel) // validated by config.Load
		l := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
		o.logger = &l
	}
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (o *clientOptions) applyDefaults() {
	if o.baseURL == "" {
		o.baseURL = DefaultBaseURL
	}
	if o.timeout == 0 {
		o.timeout = DefaultTimeout
	}
	if o.encoding == "" {
		o.encoding = EncodingJSON
	}
	if o.logger == nil {
		nop := zerolog.Nop()
		o.logger = &nop
	}
}

// resolveOptions applies all option functions, layers in file and
// environment configuration, and fills defaults.
func resolveOptions(opts []ClientOption) (clientOptions, error) {
	var o clientOptions
	for _, fn := range opts {
		fn(&o)
	}
	cfg, err := config.Load(o.configFiles...)
	if err != nil {
		return clientOptions{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	o.applyConfig(cfg)
	o.applyDefaults()
	return o, nil
}

// --- Connection ---

// WithBaseURL sets the service endpoint, e.g. "https://agents.example.com".
func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(o *clientOptions) { o.apiKey = key }
}

// WithTimeout bounds each unary call made with the default HTTP client.
// Zero means DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHTTPClient replaces the default HTTP client for unary and streaming
// calls alike. Leave its Timeout zero if streams may outlive it and bound
// calls with contexts instead.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithEncoding selects the unary wire encoding, EncodingJSON or
// EncodingMsgpack.
func WithEncoding(encoding string) ClientOption {
	return func(o *clientOptions) { o.encoding = encoding }
}

// WithTransport replaces the HTTP transport entirely, e.g. with a fake
// service in tests. Connection options are ignored when set.
func WithTransport(t Transport) ClientOption {
	return func(o *clientOptions) { o.transport = t }
}

// --- Defaults & configuration ---

// WithModel sets the default model requested for new sessions and messages.
// The service falls back to its own default when none is named anywhere.
func WithModel(model string) ClientOption {
	return func(o *clientOptions) { o.model = model }
}

// WithConfigFile adds TOML configuration files, merged in order after
// built-in defaults and before A3S_-prefixed environment variables.
// Explicit options always win over file and environment values.
func WithConfigFile(paths ...string) ClientOption {
	return func(o *clientOptions) { o.configFiles = append(o.configFiles, paths...) }
}

// --- Observability & accounting ---

// WithLogger sets the zerolog logger used for request debug logging.
// Logging is disabled by default.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = &logger }
}

// WithPricing supplies per-model pricing so UsageReport can accumulate
// cost. Models absent from the table have their tokens counted but add no
// cost.
func WithPricing(pricing map[string]ModelPricing) ClientOption {
	return func(o *clientOptions) { o.pricing = pricing }
}
