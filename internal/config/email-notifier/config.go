package email_notifier_config

import (
	"time"

	"github.com/bookly-labs/bookly/internal/obs"
)

type KafkaIn struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type SMTP struct {
	Addr     string        `mapstructure:"addr"`
	From     string        `mapstructure:"from"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	In     KafkaIn `mapstructure:"kafka_in"`
	SMTP   SMTP    `mapstructure:"smtp"`
	Server Server  `mapstructure:"server"`
	OTEL   OTEL    `mapstructure:"otel"`
	Log    Log     `mapstructure:"log"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:   c.Log.Level,
		Pretty:  c.Log.Pretty,
		Service: "bookly/email-notifier",
	}
}

func (c *Config) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      c.OTEL.Enable,
		Endpoint:    c.OTEL.OTLPEndpoint,
		ServiceName: c.OTEL.ServiceName,
		SampleRatio: c.OTEL.SampleRatio,
	}
}
