package eventchain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecconfig "github.com/randalmurphal/eventchain/pkg/eventchain/config"
)

// TestNewFromConfig verifies the file values reach the Director.
func TestNewFromConfig(t *testing.T) {
	cfg := ecconfig.Default()
	cfg.DepthFirst = true
	cfg.FlattenResults = true
	cfg.MaxLogEntries = 2

	d, err := NewFromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.CloseLogSink() })

	require.NoError(t, d.Subscribe("start", echoAction("A")))

	_, err = d.Dispatch(context.Background(), "start", "data")
	require.NoError(t, err)

	// MaxLogEntries=2 evicted the first of the three dispatch lines.
	assert.Len(t, d.Log(), 2)
}

// TestNewFromConfig_Invalid verifies validation runs before
// construction.
func TestNewFromConfig_Invalid(t *testing.T) {
	cfg := ecconfig.Default()
	cfg.MaxConcurrentActions = 0

	_, err := NewFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

// TestNewFromConfig_LogSink verifies the named SQLite sink receives the
// dispatch log and CloseLogSink closes it.
func TestNewFromConfig_LogSink(t *testing.T) {
	cfg := ecconfig.Default()
	cfg.LogSinkPath = filepath.Join(t.TempDir(), "chain.db")

	d, err := NewFromConfig(cfg)
	require.NoError(t, err)

	require.NoError(t, d.Subscribe("start", echoAction("A")))
	_, err = d.Dispatch(context.Background(), "start", "data")
	require.NoError(t, err)

	persisted, err := d.sink.List(0)
	require.NoError(t, err)
	assert.Len(t, persisted, 3)

	require.NoError(t, d.CloseLogSink())
	// Idempotent, sink close already handled.
	assert.NoError(t, d.CloseLogSink())
}

// TestNewFromConfig_OptionsWin verifies explicit options override file
// values.
func TestNewFromConfig_OptionsWin(t *testing.T) {
	cfg := ecconfig.Default()
	cfg.MaxLogEntries = 100

	d, err := NewFromConfig(cfg, WithMaxLogEntries(1))
	require.NoError(t, err)

	require.NoError(t, d.Subscribe("start", echoAction("A")))
	_, err = d.Dispatch(context.Background(), "start", "data")
	require.NoError(t, err)

	assert.Len(t, d.Log(), 1)
}
