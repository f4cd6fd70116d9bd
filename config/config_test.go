package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolcall/provider"
)

const testYAML = `
answer_prefix: "${TEST_TOOLCALL_PREFIX}"
log_level: debug
planner: ollama
dispatch:
  max_concurrency: 4
  tool_timeout: 2s
  recover_panics: false
tools: [echo]
`

func TestParse(t *testing.T) {
	t.Setenv("TEST_TOOLCALL_PREFIX", "FINAL:")
	cfg, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	assert.Equal(t, "FINAL:", cfg.AnswerPrefix)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, provider.Ollama, cfg.PlannerName())
	assert.Equal(t, 4, cfg.Dispatch.MaxConcurrency)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.ToolTimeout)
	require.NotNil(t, cfg.Dispatch.RecoverPanics)
	assert.False(t, *cfg.Dispatch.RecoverPanics)
	assert.Equal(t, []string{"echo"}, cfg.Tools)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Len(t, cfg.RegistryOptions(), 2)
	assert.Len(t, cfg.Middlewares(nil), 2)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAnswerPrefix, cfg.AnswerPrefix)
	assert.Equal(t, provider.Anthropic, cfg.PlannerName())
	assert.Equal(t, 10, cfg.Dispatch.MaxConcurrency)
	assert.Nil(t, cfg.Dispatch.RecoverPanics)
	assert.Len(t, cfg.RegistryOptions(), 1)
	assert.Len(t, cfg.Middlewares(nil), 1)
}

func TestParse_UnsetVariableKept(t *testing.T) {
	cfg, err := Parse([]byte(`answer_prefix: "${TEST_TOOLCALL_UNSET_VAR}"`))
	require.NoError(t, err)
	assert.Equal(t, "${TEST_TOOLCALL_UNSET_VAR}", cfg.AnswerPrefix)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("TOOLCALL_PLANNER", "TGI")
	t.Setenv("TOOLCALL_LOG_LEVEL", "error")
	t.Setenv("TOOLCALL_ANSWER_PREFIX", "")
	t.Setenv("TOOLCALL_MAX_CONCURRENCY", "0")
	cfg, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	assert.Equal(t, provider.TGI, cfg.PlannerName())
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Empty(t, cfg.AnswerPrefix)
	assert.Zero(t, cfg.Dispatch.MaxConcurrency)

	t.Setenv("TOOLCALL_MAX_CONCURRENCY", "many")
	_, err = Parse([]byte(testYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOOLCALL_MAX_CONCURRENCY")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("planner: gemini\nlog_level: loud\ndispatch:\n  max_concurrency: -1\n"))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid config")
	assert.Contains(t, msg, `"gemini"`)
	assert.Contains(t, msg, "log_level")
	assert.Contains(t, msg, "max_concurrency")

	_, err = Parse([]byte("dispatch: [1, 2]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	_, err = Parse([]byte("dispatch:\n  tool_timeout: soon\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolcall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner: openai\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, provider.OpenAI, cfg.PlannerName())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TOOLCALL_PLANNER", "openai")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, provider.OpenAI, cfg.PlannerName())

	t.Setenv("TOOLCALL_LOG_LEVEL", "chatty")
	_, err = FromEnv()
	assert.Error(t, err)
}
