package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values
type Config struct {
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Demo       DemoConfig       `yaml:"demo"`
}

type SchedulerConfig struct {
	MinimumJobSize int           `yaml:"minimum_job_size"`
	ThreadCount    int           `yaml:"thread_count"` // 0 = one per spare CPU
	ForceSync      bool          `yaml:"force_sync"`
	JoinTimeout    time.Duration `yaml:"join_timeout"`
	LockOSThread   bool          `yaml:"lock_os_thread"`
	Inline         bool          `yaml:"inline"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MonitoringConfig struct {
	Window    int           `yaml:"window"`     // cycles kept for rolling averages
	SlowCycle time.Duration `yaml:"slow_cycle"` // alert threshold for average cycle time
}

type DemoConfig struct {
	Entities     int     `yaml:"entities"`
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	WindowTitle  string  `yaml:"window_title"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Lifetime     int     `yaml:"lifetime"` // frames; 0 = entities never expire
}

// DefaultConfig returns the values used for anything a config file omits
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			MinimumJobSize: 64,
			ThreadCount:    0,
			ForceSync:      true,
			JoinTimeout:    50 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Monitoring: MonitoringConfig{
			Window:    120,
			SlowCycle: 8 * time.Millisecond,
		},
		Demo: DemoConfig{
			Entities:     4000,
			ScreenWidth:  960,
			ScreenHeight: 600,
			WindowTitle:  "entityjobs swarm",
			MaxSpeed:     2.5,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates it
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate rejects values no scheduler or host can run with
func (c *Config) Validate() error {
	switch {
	case c.Scheduler.MinimumJobSize < 1:
		return fmt.Errorf("scheduler.minimum_job_size must be at least 1, got %d", c.Scheduler.MinimumJobSize)
	case c.Scheduler.ThreadCount < 0:
		return fmt.Errorf("scheduler.thread_count must not be negative, got %d", c.Scheduler.ThreadCount)
	case c.Scheduler.JoinTimeout < 0:
		return fmt.Errorf("scheduler.join_timeout must not be negative, got %s", c.Scheduler.JoinTimeout)
	case c.Monitoring.Window < 1:
		return fmt.Errorf("monitoring.window must be at least 1, got %d", c.Monitoring.Window)
	case c.Demo.Entities < 0:
		return fmt.Errorf("demo.entities must not be negative, got %d", c.Demo.Entities)
	case c.Demo.ScreenWidth < 1 || c.Demo.ScreenHeight < 1:
		return fmt.Errorf("demo screen size must be positive, got %dx%d", c.Demo.ScreenWidth, c.Demo.ScreenHeight)
	}
	return nil
}

// GetThreadCount resolves thread_count, treating 0 as one worker per spare CPU
func (c *Config) GetThreadCount() int {
	if c.Scheduler.ThreadCount > 0 {
		return c.Scheduler.ThreadCount
	}
	return max(1, runtime.NumCPU()-1)
}

func (c *Config) GetScreenWidth() int {
	return c.Demo.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Demo.ScreenHeight
}
