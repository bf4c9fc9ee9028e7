package config

import (
	"os"
	"strings"
	"time"

	client "github.com/aserto-dev/go-aserto"
	"github.com/aserto-dev/logger"
	"github.com/deskops/helpdesk-groups/pkg/store"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Logging logger.Config `json:"logging"`
	LogFile LogFileConfig `json:"log_file"`
	Mongo   store.Config  `json:"mongo"`
	Server  struct {
		ListenAddress     string           `json:"listen_address"`
		Certs             client.TLSConfig `json:"certs"`
		Auth              AuthConfig       `json:"auth"`
		IdleTimeout       time.Duration    `json:"idle_timeout"`
		ReadTimeout       time.Duration    `json:"read_timeout"`
		ReadHeaderTimeout time.Duration    `json:"read_header_timeout"`
		WriteTimeout      time.Duration    `json:"write_timeout"`
		ShutdownTimeout   time.Duration    `json:"shutdown_timeout"`
	} `json:"server"`

	SCIM struct {
		Enabled bool `json:"enabled"`
	} `json:"scim"`
}

// LogFileConfig enables rotating file output when Path is set.
type LogFileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

type AuthConfig struct {
	Basic struct {
		Enabled  bool   `json:"enabled"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"basic"`
	Bearer struct {
		Enabled bool   `json:"enabled"`
		Token   string `json:"token"`
	} `json:"bearer"`
}

func NewConfig(configPath string) (*Config, error) { // nolint // function will contain repeating statements for defaults
	file := "config.yaml"
	v := viper.New()

	if configPath != "" {
		exists, err := fileExists(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to determine if config file '%s' exists", configPath)
		}

		if !exists {
			return nil, errors.Errorf("config file '%s' doesn't exist", configPath)
		}

		file = configPath
	}

	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetConfigFile(file)
	v.SetEnvPrefix("HELPDESK_GROUPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults.
	v.SetDefault("logging.log_level", "info")
	v.SetDefault("log_file.max_size_mb", 50)
	v.SetDefault("log_file.max_backups", 10)
	v.SetDefault("log_file.max_age_days", 14)
	v.SetDefault("log_file.compress", true)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "helpdesk")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("mongo.ping_timeout", "5s")

	v.SetDefault("server.listen_address", ":8080")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.auth.basic.enabled", false)
	v.SetDefault("server.auth.bearer.enabled", false)

	v.SetDefault("scim.enabled", true)

	// Allow setting via env vars.
	v.SetDefault("log_file.path", "")
	v.SetDefault("server.auth.basic.username", "")
	v.SetDefault("server.auth.basic.password", "")
	v.SetDefault("server.auth.bearer.token", "")

	configExists, err := fileExists(file)
	if err != nil {
		return nil, errors.Wrapf(err, "filesystem error")
	}

	if configExists {
		if err = v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file '%s'", file)
		}
	}
	v.AutomaticEnv()

	cfg := new(Config)

	err = v.UnmarshalExact(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config file")
	}

	cfg.Logging.LogLevelParsed, err = zerolog.ParseLevel(cfg.Logging.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "logging.log_level failed to parse")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every problem found in the configuration.
func (cfg *Config) Validate() error {
	var mErr *multierror.Error

	if cfg.Server.ListenAddress == "" {
		mErr = multierror.Append(mErr, errors.Wrap(ErrInvalidConfig, "server.listen_address is required"))
	}

	if cfg.Mongo.URI == "" {
		mErr = multierror.Append(mErr, errors.Wrap(ErrInvalidConfig, "mongo.uri is required"))
	}

	if cfg.Mongo.Database == "" {
		mErr = multierror.Append(mErr, errors.Wrap(ErrInvalidConfig, "mongo.database is required"))
	}

	if cfg.Server.Auth.Basic.Enabled && (cfg.Server.Auth.Basic.Username == "" || cfg.Server.Auth.Basic.Password == "") {
		mErr = multierror.Append(mErr, errors.Wrap(ErrInvalidConfig, "server.auth.basic requires username and password"))
	}

	if cfg.Server.Auth.Bearer.Enabled && cfg.Server.Auth.Bearer.Token == "" {
		mErr = multierror.Append(mErr, errors.Wrap(ErrInvalidConfig, "server.auth.bearer requires a token"))
	}

	return mErr.ErrorOrNil()
}

func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, errors.Wrapf(err, "failed to stat file '%s'", path)
	}
}
