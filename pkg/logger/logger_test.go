package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_InvalidLevel(t *testing.T) {
	err := Initialize(Config{Level: "loud", Environment: "development"})
	assert.Error(t, err)
}

func TestInitialize_ProductionWritesRotatedFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(Config{
		Level:       "info",
		LogDir:      dir,
		Environment: "production",
		ServiceName: "preschool-api",
	}))

	Info("hello")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"preschool-api"`)
}

func TestHelpers_NoopBeforeInitialize(t *testing.T) {
	assert.NotPanics(t, func() {
		LogHTTPRequest("GET", "/", 200, 0.01)
		LogAPICall("sheets", "visit_request", "error", 0.2)
	})
}
