package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 10, 1, 8, 5, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "metrics response is not JSON",
		Data:    logrus.Fields{"source": "pdf", "content_length": 5120},
	}

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-10-01 08:05:00] [WARN] [] metrics response is not JSON content_length=5120 source=pdf\n", string(out))
}

func TestInitLoggerWritesFile(t *testing.T) {
	orig := Log
	t.Cleanup(func() { Log = orig })

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, InitLogger("not-a-level", path))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	Log.Debug("hidden")
	Log.WithField("analysis_id", "abc").Info("analysis finished")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, "hidden")
	assert.Contains(t, text, "[INFO]")
	assert.Contains(t, text, "logger_test.go:")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "analysis finished analysis_id=abc"))
}
