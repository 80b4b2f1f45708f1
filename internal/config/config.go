// Package config loads service configuration from defaults, an optional
// YAML file and SHOPLYTICS_* environment variables.
package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Dataset DatasetConfig `mapstructure:"dataset"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatasetConfig struct {
	Seed        uint64 `mapstructure:"seed"`
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	SnapshotDSN string `mapstructure:"snapshot_dsn"`
}

// Options converts the dataset section into generator options.
func (c DatasetConfig) Options() (dataset.Options, error) {
	opts := dataset.DefaultOptions()
	opts.Seed = c.Seed

	if c.Start != "" {
		t, err := time.Parse(engine.DateLayout, c.Start)
		if err != nil {
			return dataset.Options{}, errs.Wrapf(err, "parse dataset.start %q", c.Start)
		}
		opts.Start = t
	}
	if c.End != "" {
		t, err := time.Parse(engine.DateLayout, c.End)
		if err != nil {
			return dataset.Options{}, errs.Wrapf(err, "parse dataset.end %q", c.End)
		}
		opts.End = t
	}
	if opts.Start.After(opts.End) {
		return dataset.Options{}, errors.New("dataset.start must not be after dataset.end")
	}
	return opts, nil
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHOPLYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("addr", cfg.Server.Addr),
		slog.Uint64("seed", cfg.Dataset.Seed),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if _, err := c.Dataset.Options(); err != nil {
		return errs.Wrap(err, "validate dataset")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := dataset.DefaultOptions()

	v.SetDefault("app.name", "shoplytics")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("dataset.seed", d.Seed)
	v.SetDefault("dataset.start", d.Start.Format(engine.DateLayout))
	v.SetDefault("dataset.end", d.End.Format(engine.DateLayout))
	v.SetDefault("dataset.snapshot_dsn", ".shoplytics/snapshot.sqlite")
}
