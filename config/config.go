package config

import (
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type InstanceConfig struct {
	URL string `mapstructure:"url"`
}

// AnimalConfig is the animal identity this instance presents. Name, species
// and description are required; the rest is optional flavor.
type AnimalConfig struct {
	Name        string `mapstructure:"name"`
	Species     string `mapstructure:"species"`
	Description string `mapstructure:"description"`
	Habitat     string `mapstructure:"habitat"`
	Diet        string `mapstructure:"diet"`
	FunFact     string `mapstructure:"fun_fact"`
	Emoji       string `mapstructure:"emoji"`
	Color       string `mapstructure:"color"`
}

type MonitorConfig struct {
	Interval     string   `mapstructure:"interval"`
	ProbeTimeout string   `mapstructure:"probe_timeout"`
	Instances    []string `mapstructure:"instances"`
}

// StoreConfig selects the friend store. An empty redis address means the
// in-memory store.
type StoreConfig struct {
	RedisAddress string `mapstructure:"redis_address"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Instance InstanceConfig `mapstructure:"instance"`
	Animal   AnimalConfig   `mapstructure:"animal"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Store    StoreConfig    `mapstructure:"store"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("instance.url", "http://localhost:8000")
	viper.SetDefault("animal.name", "Rusty")
	viper.SetDefault("animal.species", "Red Panda")
	viper.SetDefault("animal.description", "A curious and playful red panda who loves to explore")
	viper.SetDefault("monitor.interval", "5s")
	viper.SetDefault("monitor.probe_timeout", "5s")
	viper.SetDefault("store.key_prefix", "friends")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Instance,
			validation.Required,
			validation.By(func(value interface{}) error {
				ic, ok := value.(InstanceConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an InstanceConfig")
				}
				return validation.ValidateStruct(&ic,
					validation.Field(&ic.URL,
						validation.Required,
						validation.By(validateInstanceURL),
					),
				)
			}),
		),
		validation.Field(&c.Animal,
			validation.Required,
			validation.By(func(value interface{}) error {
				ac, ok := value.(AnimalConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AnimalConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.Name, validation.Required),
					validation.Field(&ac.Species, validation.Required),
					validation.Field(&ac.Description, validation.Required),
				)
			}),
		),
		validation.Field(&c.Monitor,
			validation.Required,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MonitorConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MonitorConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.Interval,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&mc.ProbeTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&mc.Instances,
						validation.Each(validation.By(validateInstanceURL)),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

// MonitorInterval returns the parsed probe cycle interval.
func (c *Config) MonitorInterval() (time.Duration, error) {
	return time.ParseDuration(c.Monitor.Interval)
}

// ProbeTimeout returns the parsed per-probe timeout.
func (c *Config) ProbeTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Monitor.ProbeTimeout)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func validateInstanceURL(value interface{}) error {
	instanceURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if instanceURL == "" {
		return validation.NewError("validation_empty_url", "instance URL cannot be empty")
	}

	parsedURL, err := url.Parse(instanceURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
