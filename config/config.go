// Package config loads the component-media configuration from YAML with
// environment overrides, struct defaults and validation.
package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultOptions returns the conventional load options: ./config/media.yaml
// with the EUREKA_MEDIA environment prefix.
func DefaultOptions() Options {
	return Options{
		BasePath:  "config",
		FileName:  "media",
		FileType:  "yaml",
		EnvPrefix: "EUREKA_MEDIA",
	}
}

// New creates a Loader for the given options.
func New(optsArr ...Options) *Loader {
	var opts Options
	if len(optsArr) == 0 {
		opts = DefaultOptions()
	} else {
		opts = optsArr[0]
	}

	v := viper.New()
	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
	} else {
		v.AddConfigPath(opts.BasePath)
		v.SetConfigName(opts.FileName)
		v.SetConfigType(opts.FileType)
	}
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	}

	return &Loader{instance: v, opts: opts}
}

// Load reads the config file, applies defaults, environment overrides and
// validation, and returns the resulting Config.
func (l *Loader) Load() (*Config, error) {
	if err := l.instance.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := l.Bind(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bind unmarshals the loaded configuration into cfg, filling defaults first
// and validating the result. With Watch enabled, cfg is rebound on every file
// change.
func (l *Loader) Bind(cfg *Config) error {
	l.watchMutex.Lock()
	defer l.watchMutex.Unlock()

	if err := l.bindLocked(cfg); err != nil {
		return err
	}

	if l.opts.Watch {
		l.watchOnce.Do(func() {
			l.instance.WatchConfig()
			l.instance.OnConfigChange(func(e fsnotify.Event) {
				l.watchMutex.Lock()
				defer l.watchMutex.Unlock()

				if err := l.bindLocked(cfg); err != nil {
					return
				}
				if l.opts.OnChange != nil {
					l.opts.OnChange(e)
				}
			})
		})
	}

	return nil
}

func (l *Loader) bindLocked(cfg *Config) error {
	if err := defaults.Set(cfg); err != nil {
		return fmt.Errorf("applying config defaults: %w", err)
	}
	if err := l.instance.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config (path: %s, file: %s.%s): %w",
			l.opts.BasePath, l.opts.FileName, l.opts.FileType, err)
	}
	return Validate(cfg)
}

// Validate checks cfg against its validation tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns a Config with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	return cfg
}
