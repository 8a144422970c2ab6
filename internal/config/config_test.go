package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-cef/header"
	"github.com/zostay/go-cef/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cef.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.OutputStdout, cfg.Output)
	assert.Equal(t, header.LF, cfg.LineBreak())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "cef", cfg.Kafka.Topic)
	assert.Equal(t, "PLAINTEXT", cfg.Kafka.SecurityProtocol)
	assert.Equal(t, -1, cfg.Kafka.Producer.RequiredAcks)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
output: kafka
break: crlf
log:
  level: debug
kafka:
  brokers:
    - broker-1:9092
    - broker-2:9092
  topic: security-events
  securityProtocol: SASL_SSL
  saslMechanism: SCRAM-SHA-256
  producer:
    compressionType: gzip
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.OutputKafka, cfg.Output)
	assert.Equal(t, header.CRLF, cfg.LineBreak())
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "security-events", cfg.Kafka.Topic)
	assert.Equal(t, "SCRAM-SHA-256", cfg.Kafka.SASLMechanism)
	assert.Equal(t, "gzip", cfg.Kafka.Producer.CompressionType)
	assert.Equal(t, 3, cfg.Kafka.Producer.RetryMax)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CEF_KAFKA_TOPIC", "from-env")
	t.Setenv("CEF_LOG_LEVEL", "error")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Kafka.Topic)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	for _, body := range []string{
		"output: kafka\n",
		"output: carrier-pigeon\n",
		"break: cr\n",
		"log:\n  level: chatty\n",
	} {
		_, err := config.Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateLogLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG"} {
		assert.NoError(t, config.ValidateLogLevel(level), level)
	}

	for _, level := range []string{"", "chatty", "warning"} {
		assert.Error(t, config.ValidateLogLevel(level), level)
	}
}
