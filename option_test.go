package a3s

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, opts ...ClientOption) clientOptions {
	t.Helper()
	o, err := resolveOptions(opts)
	require.NoError(t, err)
	return o
}

func TestResolveOptionsDefaults(t *testing.T) {
	opts := mustResolve(t)

	assert.Equal(t, DefaultBaseURL, opts.baseURL)
	assert.Equal(t, DefaultTimeout, opts.timeout)
	assert.Equal(t, EncodingJSON, opts.encoding)
	assert.Empty(t, opts.apiKey)
	assert.Empty(t, opts.model)
	require.NotNil(t, opts.logger)
	assert.Equal(t, zerolog.Disabled, opts.logger.GetLevel(), "logging should be off by default")
}

func TestWithBaseURL(t *testing.T) {
	opts := mustResolve(t, WithBaseURL("https://agents.example.com"))
	assert.Equal(t, "https://agents.example.com", opts.baseURL)
}

func TestWithAPIKey(t *testing.T) {
	opts := mustResolve(t, WithAPIKey("sk-test"))
	assert.Equal(t, "sk-test", opts.apiKey)
}

func TestWithModel(t *testing.T) {
	opts := mustResolve(t, WithModel("agent-large"))
	assert.Equal(t, "agent-large", opts.model)
}

func TestWithTimeout(t *testing.T) {
	opts := mustResolve(t, WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, opts.timeout)
}

func TestWithEncoding(t *testing.T) {
	opts := mustResolve(t, WithEncoding(EncodingMsgpack))
	assert.Equal(t, EncodingMsgpack, opts.encoding)
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	opts := mustResolve(t, WithHTTPClient(hc))
	assert.Same(t, hc, opts.httpClient)
}

func TestWithLogger(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	opts := mustResolve(t, WithLogger(logger))
	assert.Equal(t, zerolog.WarnLevel, opts.logger.GetLevel())
}

func TestWithPricing(t *testing.T) {
	opts := mustResolve(t, WithPricing(map[string]ModelPricing{
		"agent-large": {InputPerMTok: decimal.NewFromInt(3), OutputPerMTok: decimal.NewFromInt(15)},
	}))
	require.Contains(t, opts.pricing, "agent-large")
	assert.True(t, opts.pricing["agent-large"].InputPerMTok.Equal(decimal.NewFromInt(3)))
}

func TestWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a3s.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url = \"https://cfg.example.com\"\nmodel = \"cfg-model\"\ntimeout = \"90s\"\n",
	), 0o644))

	opts := mustResolve(t, WithConfigFile(path))
	assert.Equal(t, "https://cfg.example.com", opts.baseURL)
	assert.Equal(t, "cfg-model", opts.model)
	assert.Equal(t, 90*time.Second, opts.timeout)
}

func TestExplicitOptionBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a3s.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = \"cfg-model\"\n"), 0o644))

	opts := mustResolve(t, WithConfigFile(path), WithModel("explicit"))
	assert.Equal(t, "explicit", opts.model)
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a3s.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = \"cfg-model\"\n"), 0o644))
	t.Setenv("A3S_MODEL", "env-model")

	opts := mustResolve(t, WithConfigFile(path))
	assert.Equal(t, "env-model", opts.model)
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("A3S_LOG_LEVEL", "debug")

	opts := mustResolve(t)
	assert.Equal(t, zerolog.DebugLevel, opts.logger.GetLevel())
}

func TestResolveOptionsInvalidConfig(t *testing.T) {
	t.Setenv("A3S_ENCODING", "xml")

	_, err := resolveOptions(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
