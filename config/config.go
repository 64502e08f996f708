package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gesture-bridge/driver"
)

const (
	AppName   = "gesture-bridge"
	EnvPrefix = "GESTURE_BRIDGE"
)

// Config holds all application configuration
type Config struct {
	Serial struct {
		Port    string        `mapstructure:"port"` // empty means auto-detect
		Backoff time.Duration `mapstructure:"backoff"`
	} `mapstructure:"serial"`
	Log struct {
		Dir   string `mapstructure:"dir"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"log"`
	Status struct {
		Addr string `mapstructure:"addr"` // empty disables the status feed
	} `mapstructure:"status"`
	Media struct {
		DryRun        bool          `mapstructure:"dry_run"`
		ActionTimeout time.Duration `mapstructure:"action_timeout"`
	} `mapstructure:"media"`

	// BaudRate is fixed by the sensor firmware.
	BaudRate int `mapstructure:"-"`
}

// Loader resolves configuration from defaults, a YAML file, the
// environment and command-line flags, in increasing precedence.
type Loader struct {
	v     *viper.Viper
	flags *pflag.FlagSet
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault("serial.port", "")
	v.SetDefault("serial.backoff", driver.DefaultBackoff)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("status.addr", "")
	v.SetDefault("media.dry_run", false)
	v.SetDefault("media.action_timeout", 5*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.StringP("port", "p", "", "Serial port (e.g. COM3, /dev/ttyUSB0, tcp://localhost:9999); auto-detected if empty")
	fs.Duration("backoff", driver.DefaultBackoff, "Wait between reconnect attempts")
	fs.String("config", "", "Config file (default $XDG_CONFIG_HOME/gesture-bridge/config.yaml)")
	fs.String("log-dir", "", "Directory for the rotating log file; stderr only if empty")
	fs.Bool("debug", false, "Enable debug logging")
	fs.String("status-addr", "", "Serve the status websocket on this address (e.g. 127.0.0.1:8989)")
	fs.Bool("dry-run", false, "Log media actions instead of performing them")

	bind := map[string]string{
		"serial.port":    "port",
		"serial.backoff": "backoff",
		"log.dir":        "log-dir",
		"log.debug":      "debug",
		"status.addr":    "status-addr",
		"media.dry_run":  "dry-run",
	}
	for key, flag := range bind {
		// BindPFlag only fails on a nil flag.
		_ = v.BindPFlag(key, fs.Lookup(flag))
	}

	return &Loader{v: v, flags: fs}
}

// Load parses args (without the program name) and returns the merged
// configuration. pflag.ErrHelp is returned as is when help was requested.
func Load(args []string) (*Config, *Loader, error) {
	l := NewLoader()
	cfg, err := l.Load(args)
	return cfg, l, err
}

func (l *Loader) Load(args []string) (*Config, error) {
	if err := l.flags.Parse(args); err != nil {
		return nil, err
	}

	if path, _ := l.flags.GetString("config"); path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		if dir := configHome(); dir != "" {
			l.v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return l.unmarshal()
}

// ConfigFile returns the file the configuration was read from, if any.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch calls onChange with the new configuration whenever the config file
// changes. Invalid edits are reported to onError and otherwise ignored.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.unmarshal()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BaudRate = driver.BaudRate

	if errs := validateConfig(&cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) []error {
	var errs []error
	if cfg.Serial.Backoff <= 0 {
		errs = append(errs, fmt.Errorf("serial.backoff must be positive, got %s", cfg.Serial.Backoff))
	}
	if cfg.Media.ActionTimeout < 0 {
		errs = append(errs, fmt.Errorf("media.action_timeout must not be negative, got %s", cfg.Media.ActionTimeout))
	}
	return errs
}

// configHome follows the XDG convention, falling back to ~/.config.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
