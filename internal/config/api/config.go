package api_config

import (
	"time"

	"github.com/bookly-labs/bookly/internal/obs"
	pg "github.com/bookly-labs/bookly/internal/repository/postgres"
	rds "github.com/bookly-labs/bookly/internal/repository/redis"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
	// Domain is the public host embedded in verification and reset links.
	Domain string `mapstructure:"domain"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Auth struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	AccessTTL    time.Duration `mapstructure:"access_ttl"`
	RefreshTTL   time.Duration `mapstructure:"refresh_ttl"`
	LinkMaxAge   time.Duration `mapstructure:"link_max_age"`
	VerifySalt   string        `mapstructure:"verify_salt"`
	ResetSalt    string        `mapstructure:"reset_salt"`
	BlocklistTTL time.Duration `mapstructure:"blocklist_ttl"`
}

type KafkaOut struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	App    App        `mapstructure:"app"`
	Server Server     `mapstructure:"server"`
	DB     pg.Config  `mapstructure:"db"`
	Redis  rds.Config `mapstructure:"redis"`
	Kafka  KafkaOut   `mapstructure:"kafka_out"`
	Auth   Auth       `mapstructure:"auth"`
	OTEL   OTEL       `mapstructure:"otel"`
	Log    Log        `mapstructure:"log"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:   c.Log.Level,
		Pretty:  c.Log.Pretty,
		Service: "bookly/" + c.App.Name,
		Env:     c.App.Env,
		Ver:     c.App.Version,
	}
}
