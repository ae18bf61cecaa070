package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("scheduler:\n  minimum_job_size: 16\n"))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Scheduler.MinimumJobSize)
	assert.True(t, cfg.Scheduler.ForceSync)
	assert.Equal(t, 50*time.Millisecond, cfg.Scheduler.JoinTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 120, cfg.Monitoring.Window)
	assert.Equal(t, 960, cfg.GetScreenWidth())
	assert.Equal(t, 600, cfg.GetScreenHeight())
}

func TestParseConfigOverrides(t *testing.T) {
	data := []byte(`
scheduler:
  minimum_job_size: 32
  thread_count: 6
  force_sync: false
  join_timeout: 200ms
  lock_os_thread: true
logging:
  level: debug
  format: json
monitoring:
  window: 10
  slow_cycle: 2ms
demo:
  entities: 100
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Scheduler.MinimumJobSize)
	assert.Equal(t, 6, cfg.GetThreadCount())
	assert.False(t, cfg.Scheduler.ForceSync)
	assert.Equal(t, 200*time.Millisecond, cfg.Scheduler.JoinTimeout)
	assert.True(t, cfg.Scheduler.LockOSThread)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 2*time.Millisecond, cfg.Monitoring.SlowCycle)
	assert.Equal(t, 100, cfg.Demo.Entities)
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"min job size": "scheduler:\n  minimum_job_size: 0\n",
		"threads":      "scheduler:\n  thread_count: -1\n",
		"window":       "monitoring:\n  window: 0\n",
		"entities":     "demo:\n  entities: -5\n",
		"screen":       "demo:\n  screen_width: 0\n",
		"malformed":    "scheduler: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestGetThreadCountDefault(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, max(1, runtime.NumCPU()-1), cfg.GetThreadCount())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  window_title: test\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Demo.WindowTitle)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	assert.Panics(t, func() { MustLoadConfig(filepath.Join(t.TempDir(), "missing.yaml")) })
}
