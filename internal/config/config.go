// Package config loads the settings for the cef command from a YAML file and
// the environment. Every key may be overridden by an environment variable with
// the CEF_ prefix and dots replaced by underscores, e.g. CEF_KAFKA_TOPIC.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zostay/go-cef/header"
	"github.com/zostay/go-cef/sink"
)

// Output destinations.
const (
	OutputStdout = "stdout"
	OutputKafka  = "kafka"
)

// Config is the complete configuration.
type Config struct {
	Output  string           `mapstructure:"output"`  // stdout or kafka
	Break   string           `mapstructure:"break"`   // lf or crlf
	Charset string           `mapstructure:"charset"` // charset of the input
	Log     LogConfig        `mapstructure:"log"`
	Metrics MetricsConfig    `mapstructure:"metrics"`
	Kafka   sink.KafkaConfig `mapstructure:"kafka"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// MetricsConfig configures the Prometheus endpoint. An empty address disables
// it.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// LineBreak returns the configured line break.
func (c *Config) LineBreak() header.Break {
	if strings.EqualFold(c.Break, "crlf") {
		return header.CRLF
	}
	return header.LF
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", OutputStdout)
	v.SetDefault("break", "lf")
	v.SetDefault("charset", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("metrics.address", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "cef")
	v.SetDefault("kafka.source", sink.DefaultSource)
	v.SetDefault("kafka.securityProtocol", "PLAINTEXT")
	v.SetDefault("kafka.saslMechanism", "")
	v.SetDefault("kafka.saslUsername", "")
	v.SetDefault("kafka.saslPassword", "")
	v.SetDefault("kafka.awsRegion", "")
	v.SetDefault("kafka.tls.enabled", false)
	v.SetDefault("kafka.tls.caCertFile", "")
	v.SetDefault("kafka.tls.clientCertFile", "")
	v.SetDefault("kafka.tls.clientKeyFile", "")
	v.SetDefault("kafka.tls.insecureSkipVerify", false)
	v.SetDefault("kafka.producer.requiredAcks", -1)
	v.SetDefault("kafka.producer.compressionType", "none")
	v.SetDefault("kafka.producer.maxMessageBytes", 1000000)
	v.SetDefault("kafka.producer.idempotentWrites", false)
	v.SetDefault("kafka.producer.retryMax", 3)
	v.SetDefault("kafka.producer.retryBackoffMs", 100)
}

// Load reads the configuration file at path, if path is not empty, applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Output {
	case OutputStdout:
	case OutputKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return errors.New("at least one Kafka broker must be configured")
		}
		if cfg.Kafka.Topic == "" {
			return errors.New("kafka topic must be configured")
		}
	default:
		return fmt.Errorf("unknown output %q", cfg.Output)
	}

	switch strings.ToLower(cfg.Break) {
	case "lf", "crlf":
	default:
		return fmt.Errorf("unknown line break %q", cfg.Break)
	}

	return ValidateLogLevel(cfg.Log.Level)
}

// ValidateLogLevel returns an error unless level is one of debug, info, warn
// or error.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
}
