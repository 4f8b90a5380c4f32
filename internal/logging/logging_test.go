package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/version"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("HOME", tmp)
	t.Setenv("INBOXKIT_ENV_FILE", filepath.Join(tmp, "none.env"))
	config.Load()
	return tmp
}

func logFiles(t *testing.T) []string {
	t.Helper()
	logDir := filepath.Join(config.Get("state_dir", ""), "logs")
	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, filepath.Join(logDir, e.Name()))
	}
	return out
}

func lastLine(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	return lines[len(lines)-1]
}

func TestConfigFromGlobal(t *testing.T) {
	setupTest(t)
	t.Setenv("INBOXKIT_LOGGING_ENABLED", "true")
	t.Setenv("INBOXKIT_LOGGING_LEVEL", "debug")
	t.Setenv("INBOXKIT_LOGGING_MAX_FILES", "5")
	config.Load()

	cfg := FromGlobalConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, "debug", cfg.Level)
	require.Equal(t, 5, cfg.MaxFiles)
	require.Equal(t, filepath.Base(os.Args[0]), cfg.Command)
	require.Equal(t, os.Getpid(), cfg.PID)
}

func TestLogLevelMapping(t *testing.T) {
	setupTest(t)

	t.Setenv("INBOXKIT_DEBUG", "true")
	t.Setenv("INBOXKIT_LOGGING_LEVEL", "info")
	config.Load()
	require.Equal(t, "debug", FromGlobalConfig().Level)

	// debug wins over quiet
	t.Setenv("INBOXKIT_QUIET", "true")
	config.Load()
	require.Equal(t, "debug", FromGlobalConfig().Level)

	t.Setenv("INBOXKIT_DEBUG", "")
	config.Load()
	require.Equal(t, "error", FromGlobalConfig().Level)

	t.Setenv("INBOXKIT_QUIET", "")
	t.Setenv("INBOXKIT_LOGGING_LEVEL", "warn")
	config.Load()
	require.Equal(t, "warn", FromGlobalConfig().Level)
}

func TestLogDir(t *testing.T) {
	tmp := setupTest(t)

	stateDir := config.Get("state_dir", "")
	require.True(t, strings.HasPrefix(stateDir, tmp), "state_dir %s not in temp dir %s", stateDir, tmp)

	logDir, err := LogDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(stateDir, "logs"), logDir)
	info, err := os.Stat(logDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestInitDisabled(t *testing.T) {
	logger, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	require.IsType(t, noopLogger{}, logger)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
	require.NoError(t, logger.Shutdown())
}

func TestInitEnabledCreatesFile(t *testing.T) {
	setupTest(t)
	t.Setenv("INBOXKIT_LOGGING_ENABLED", "true")
	config.Load()

	cfg := FromGlobalConfig()
	cfg.Command = "feed list"
	logger, err := Init(cfg)
	require.NoError(t, err)
	defer logger.Shutdown()

	files := logFiles(t)
	require.Len(t, files, 1)
	fname := filepath.Base(files[0])
	require.True(t, strings.HasPrefix(fname, "inboxkit-"))
	require.True(t, strings.HasSuffix(fname, fmt.Sprintf("-%d-feed-list.log", os.Getpid())))
	info, err := os.Stat(files[0])
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoggingWritesJSONWithRedaction(t *testing.T) {
	setupTest(t)
	t.Setenv("INBOXKIT_LOGGING_ENABLED", "true")
	config.Load()

	logger, err := Init(FromGlobalConfig())
	require.NoError(t, err)
	logger.With("component", "feed").Info("fetched", "count", 3, "api_token", "xyz")
	require.NoError(t, logger.Shutdown())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lastLine(t, logFiles(t)[0])), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "fetched", entry["msg"])
	require.Equal(t, float64(os.Getpid()), entry["pid"])
	require.Equal(t, "inboxkit", entry["app"])
	require.Equal(t, version.String(), entry["version"])
	require.Equal(t, "feed", entry["component"])
	require.Equal(t, float64(3), entry["count"])
	require.Equal(t, "[REDACTED]", entry["api_token"])
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "warn")

	logger.Info("dropped")
	logger.With("tab", "Security").Warn("kept", "password", "hunter2")

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, `"msg":"kept"`)
	require.Contains(t, out, `"tab":"Security"`)
	require.Contains(t, out, `"password":"[REDACTED]"`)
	require.NoError(t, logger.Shutdown())
}

func TestWithRedactsBoundFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "debug").With("auth_header", "Bearer abc", "tab", "All")

	logger.Debug("request")

	out := buf.String()
	require.NotContains(t, out, "Bearer abc")
	require.Contains(t, out, `"auth_header":"[REDACTED]"`)
	require.Contains(t, out, `"tab":"All"`)
}

func TestChildShutdownClosesSharedFileOnce(t *testing.T) {
	setupTest(t)
	t.Setenv("INBOXKIT_LOGGING_ENABLED", "true")
	config.Load()

	logger, err := Init(FromGlobalConfig())
	require.NoError(t, err)
	child := logger.With("component", "tabs")

	require.NoError(t, child.Shutdown())
	require.NoError(t, logger.Shutdown())
}

func TestLogFileName(t *testing.T) {
	started := time.Date(2026, 3, 10, 12, 0, 5, 0, time.UTC)

	require.Equal(t, "inboxkit-20260310-120005-42-feed-list.log", logFileName(started, 42, "feed list"))
	require.Equal(t, "inboxkit-20260310-120005-42-tabs-watch.log", logFileName(started, 42, "Tabs  Watch!"))
	require.Equal(t, "inboxkit-20260310-120005-42.log", logFileName(started, 42, ""))
}

func TestRedactionEdgeCases(t *testing.T) {
	r := newRedactor()

	require.Equal(t, []any{"PaSsWoRd", "[REDACTED]"}, r.redact([]any{"PaSsWoRd", "secret"}))
	require.Equal(t, []any{"api-token", "[REDACTED]"}, r.redact([]any{"api-token", "xyz"}))
	require.Equal(t, []any{"session.cookie", "[REDACTED]"}, r.redact([]any{"session.cookie", "xyz"}))
	require.Equal(t, []any{"apitoken", "xyz"}, r.redact([]any{"apitoken", "xyz"}))
	require.Equal(t, []any{"secretary", "value"}, r.redact([]any{"secretary", "value"}))
	require.Equal(t, []any{"password", "[REDACTED]", "extra"}, r.redact([]any{"password", "hidden", "extra"}))
	require.Empty(t, r.redact([]any{}))
}

func TestRotation(t *testing.T) {
	setupTest(t)
	t.Setenv("INBOXKIT_LOGGING_ENABLED", "true")
	t.Setenv("INBOXKIT_LOGGING_MAX_FILES", "2")
	config.Load()

	logDir, err := LogDir()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		path := filepath.Join(logDir, fmt.Sprintf("inboxkit-20250101-12000%d-999-test.log", i))
		require.NoError(t, os.WriteFile(path, nil, 0600))
		old := time.Now().Add(-time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(path, old, old))
	}
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "unrelated.log"), nil, 0600))

	logger, err := Init(FromGlobalConfig())
	require.NoError(t, err)
	require.NoError(t, logger.Shutdown())

	_, err = os.Stat(filepath.Join(logDir, "inboxkit-20250101-120002-999-test.log"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(logDir, "unrelated.log"))
	require.NoError(t, err)
}

func TestGlobalLoggerDefaultsToNoop(t *testing.T) {
	require.NotNil(t, GetGlobal())
	require.NotPanics(t, func() {
		Info("no global logger yet")
		With("k", "v").Debug("still fine")
	})
}

func TestLevelParsing(t *testing.T) {
	require.Equal(t, clog.DebugLevel, parseLevel("debug"))
	require.Equal(t, clog.InfoLevel, parseLevel("info"))
	require.Equal(t, clog.WarnLevel, parseLevel("warn"))
	require.Equal(t, clog.WarnLevel, parseLevel("warning"))
	require.Equal(t, clog.ErrorLevel, parseLevel("error"))
	require.Equal(t, clog.InfoLevel, parseLevel("unknown"))
}
