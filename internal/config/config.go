package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameDelayMs     = 40
	DefaultYieldMs          = 1
	DefaultSquishiness      = 2.0
	DefaultMargin           = 5
	DefaultLeftPad          = 2.0
	DefaultProgressFontSize = 20.0
	DefaultWorkers          = 1
	DefaultSupersample      = 8
	DefaultTheme            = "cyberpunk"
	DefaultWindowWidth      = 960
	DefaultWindowHeight     = 540
	DefaultWindowTitle      = "asciiplay"
	DefaultWindowFPS        = 60
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	FrameDelayMs     int            `yaml:"frame_delay_ms"`
	YieldMs          int            `yaml:"yield_ms"`
	Squishiness      float64        `yaml:"squishiness"`
	Margin           int            `yaml:"margin"`
	LeftPad          float64        `yaml:"left_pad"`
	ProgressFontSize float64        `yaml:"progress_font_size"`
	Offload          bool           `yaml:"offload"`
	Workers          int            `yaml:"workers"`
	Terminal         TerminalConfig `yaml:"terminal"`
	Window           WindowConfig   `yaml:"window"`
}

type TerminalConfig struct {
	Supersample int    `yaml:"supersample"`
	Theme       string `yaml:"theme"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		FrameDelayMs:     DefaultFrameDelayMs,
		YieldMs:          DefaultYieldMs,
		Squishiness:      DefaultSquishiness,
		Margin:           DefaultMargin,
		LeftPad:          DefaultLeftPad,
		ProgressFontSize: DefaultProgressFontSize,
		Workers:          DefaultWorkers,
		Terminal: TerminalConfig{
			Supersample: DefaultSupersample,
			Theme:       DefaultTheme,
		},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  DefaultWindowTitle,
			FPS:    DefaultWindowFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.FrameDelayMs <= 0:
		return fmt.Errorf("%w: frame_delay_ms must be positive, got %d", ErrInvalidConfig, c.FrameDelayMs)
	case c.YieldMs <= 0:
		return fmt.Errorf("%w: yield_ms must be positive, got %d", ErrInvalidConfig, c.YieldMs)
	case c.Squishiness < 0:
		return fmt.Errorf("%w: squishiness must not be negative, got %g", ErrInvalidConfig, c.Squishiness)
	case c.Margin < 0:
		return fmt.Errorf("%w: margin must not be negative, got %d", ErrInvalidConfig, c.Margin)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case c.Terminal.Supersample < 1:
		return fmt.Errorf("%w: terminal.supersample must be at least 1, got %d", ErrInvalidConfig, c.Terminal.Supersample)
	}
	return nil
}

func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMs) * time.Millisecond
}

func (c *Config) Yield() time.Duration {
	return time.Duration(c.YieldMs) * time.Millisecond
}
