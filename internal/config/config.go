package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/codearena/judge-api/internal/logger"
	"github.com/codearena/judge-api/internal/validator"
)

type PostgresConfig struct {
	User               string        `validate:"required"`
	Password           string        `validate:"required"`
	Host               string        `validate:"required"`
	Database           string        `validate:"required"`
	MaxIdleConnections int           `validate:"required" mapstructure:"max_idle_connections"`
	MaxOpenConnections int           `validate:"required" mapstructure:"max_open_connections"`
	ConnectionTTL      time.Duration `validate:"required" mapstructure:"connection_ttl"`
	Port               int16         `validate:"required"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"     validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JudgeConfig struct {
	// Base URL of the external execution judge, e.g. http://judge:2358
	URL       string `mapstructure:"url"        validate:"required,url"`
	AuthToken string `mapstructure:"auth_token"`
	// One poll loop budget: at most poll_max_attempts polls, poll_interval apart.
	PollInterval    time.Duration `mapstructure:"poll_interval"     validate:"required"`
	PollMaxAttempts uint64        `mapstructure:"poll_max_attempts" validate:"required"`
}

type APIConfig struct {
	// Page size applied when list endpoints omit an explicit limit.
	DefaultPageLimit int `mapstructure:"default_page_limit"`
}

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type GormLogConfig struct {
	Level        int  `mapstructure:"level"`
	TraceQueries bool `mapstructure:"trace_queries"`
}

type LoggingConfig struct {
	Gorm    GormLogConfig `mapstructure:"gorm"`
	App     SlogConfig    `mapstructure:"app"`
	UseOTLP bool          `mapstructure:"use_otlp"`
}

// See judgeapi.yaml for an example config
type Config struct {
	Postgres             *PostgresConfig `mapstructure:"postgres" validate:"required"`
	Redis                *RedisConfig    `mapstructure:"redis"    validate:"required"`
	Judge                *JudgeConfig    `mapstructure:"judge"    validate:"required"`
	Logging              *LoggingConfig  `mapstructure:"logging"`
	API                  *APIConfig      `mapstructure:"api"`
	ListenAddress        string          `mapstructure:"listen_address" validate:"required"`
	GracefulShutdownSecs int64           `mapstructure:"graceful_shutdown_secs"`
}

const (
	APIDefaultPageLimit        string = "api.default_page_limit"
	AppLogLevel                string = "logging.app.level"
	EnvPrefix                  string = "judgeapi"
	GormLogLevel               string = "logging.gorm.level"
	GormTraceQueries           string = "logging.gorm.trace_queries"
	GracefulShutdownSecs       string = "graceful_shutdown_secs"
	JudgeAuthToken             string = "judge.auth_token" // #nosec
	JudgePollInterval          string = "judge.poll_interval"
	JudgePollMaxAttempts       string = "judge.poll_max_attempts"
	JudgeURL                   string = "judge.url"
	ListenAddress              string = "listen_address"
	PostgresConnectonTTL       string = "postgres.connection_ttl"
	PostgresDatabase           string = "postgres.database"
	PostgresHost               string = "postgres.host"
	PostgresMaxIdleConnections string = "postgres.max_idle_connections"
	PostgresMaxOpenConnections string = "postgres.max_open_connections"
	PostgresPassword           string = "postgres.password"
	PostgresPort               string = "postgres.port"
	PostgresUser               string = "postgres.user"
	RedisAddr                  string = "redis.addr"
	RedisDB                    string = "redis.db"
	RedisPassword              string = "redis.password" // #nosec
	UseOTLP                    string = "logging.use_otlp"
)

var configReady = false
var config Config

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("judgeapi")

	v.AddConfigPath("/etc/judgeapi/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind env vars explicitly so they unmarshal into the nested struct
	err := v.BindEnv(PostgresPassword)
	if err != nil {
		return nil, err
	}
	err = v.BindEnv(RedisPassword)
	if err != nil {
		return nil, err
	}
	err = v.BindEnv(JudgeAuthToken)
	if err != nil {
		return nil, err
	}

	v.SetDefault(APIDefaultPageLimit, 50)

	v.SetDefault(ListenAddress, "[::]:1323")
	v.SetDefault(PostgresHost, "localhost")
	v.SetDefault(PostgresPort, 5432)
	v.SetDefault(PostgresMaxIdleConnections, 2)
	v.SetDefault(PostgresMaxOpenConnections, 10)
	v.SetDefault(PostgresConnectonTTL, 10*time.Minute)
	v.SetDefault(GormLogLevel, int(slog.LevelDebug))
	v.SetDefault(GormTraceQueries, false)
	v.SetDefault(AppLogLevel, int(slog.LevelDebug))

	v.SetDefault(RedisAddr, "localhost:6379")
	v.SetDefault(RedisDB, 0)

	v.SetDefault(JudgePollInterval, time.Second)
	v.SetDefault(JudgePollMaxAttempts, 30)

	v.SetDefault(UseOTLP, false)

	v.SetDefault(GracefulShutdownSecs, 30)

	err = v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		if _, ok := err.(*viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	valid := validator.Create()
	err = valid.Validate(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	configReady = true
	return &config, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s",
		url.QueryEscape(c.Postgres.User),
		url.QueryEscape(c.Postgres.Password),
		c.Postgres.Host, c.Postgres.Port,
		url.QueryEscape(c.Postgres.Database),
	)
}
