package sink

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/aws/aws-msk-iam-sasl-signer-go/signer"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zostay/go-cef"
)

// CloudEvents attributes used for every published line.
const (
	EventType       = "io.github.zostay.cef.event"
	DefaultSource   = "go-cef"
	ContentTypeText = "text/plain"
)

// KafkaConfig holds the connection and producer settings for a Kafka sink.
type KafkaConfig struct {
	Brokers          []string       `mapstructure:"brokers"`
	Topic            string         `mapstructure:"topic"`
	Source           string         `mapstructure:"source"`           // CloudEvents source attribute
	SecurityProtocol string         `mapstructure:"securityProtocol"` // PLAINTEXT, SASL_SSL, SASL_PLAINTEXT
	SASLMechanism    string         `mapstructure:"saslMechanism"`    // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512, AWS_MSK_IAM
	SASLUsername     string         `mapstructure:"saslUsername"`
	SASLPassword     string         `mapstructure:"saslPassword"`
	AWSRegion        string         `mapstructure:"awsRegion"`
	TLS              TLSConfig      `mapstructure:"tls"`
	Producer         ProducerConfig `mapstructure:"producer"`
}

// TLSConfig holds TLS settings for the Kafka connection.
type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CACertFile         string `mapstructure:"caCertFile"`
	ClientCertFile     string `mapstructure:"clientCertFile"`
	ClientKeyFile      string `mapstructure:"clientKeyFile"`
	InsecureSkipVerify bool   `mapstructure:"insecureSkipVerify"`
}

// ProducerConfig holds producer tuning.
type ProducerConfig struct {
	RequiredAcks     int    `mapstructure:"requiredAcks"`    // 0=NoResponse, 1=WaitForLocal, -1=WaitForAll
	CompressionType  string `mapstructure:"compressionType"` // none, gzip, snappy, lz4, zstd
	MaxMessageBytes  int    `mapstructure:"maxMessageBytes"`
	IdempotentWrites bool   `mapstructure:"idempotentWrites"`
	RetryMax         int    `mapstructure:"retryMax"`
	RetryBackoffMs   int    `mapstructure:"retryBackoffMs"`
}

// Kafka publishes each event as a CloudEvent whose data is the CEF line.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	source   string
	logger   *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// NewKafka connects a synchronous producer to the configured brokers.
func NewKafka(cfg KafkaConfig, logger *zap.Logger) (*Kafka, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	saramaConfig, err := SaramaConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka producer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("securityProtocol", cfg.SecurityProtocol),
	)

	return NewKafkaWithProducer(producer, cfg.Topic, cfg.Source, logger), nil
}

// NewKafkaWithProducer wraps an existing producer. An empty source means
// DefaultSource.
func NewKafkaWithProducer(p sarama.SyncProducer, topic, source string, logger *zap.Logger) *Kafka {
	if logger == nil {
		logger = zap.NewNop()
	}
	if source == "" {
		source = DefaultSource
	}
	return &Kafka{
		producer: p,
		topic:    topic,
		source:   source,
		logger:   logger,
		closed:   make(chan struct{}),
	}
}

// SaramaConfig translates cfg into a sarama configuration.
func SaramaConfig(cfg KafkaConfig, logger *zap.Logger) (*sarama.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true

	saramaConfig.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Producer.RequiredAcks)
	saramaConfig.Producer.Compression = parseCompressionType(cfg.Producer.CompressionType)
	if cfg.Producer.MaxMessageBytes > 0 {
		saramaConfig.Producer.MaxMessageBytes = cfg.Producer.MaxMessageBytes
	}
	saramaConfig.Producer.Idempotent = cfg.Producer.IdempotentWrites
	saramaConfig.Producer.Retry.Max = cfg.Producer.RetryMax
	saramaConfig.Producer.Retry.Backoff = time.Duration(cfg.Producer.RetryBackoffMs) * time.Millisecond

	// idempotent producers require a single in-flight request
	if cfg.Producer.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	if err := configureSecurity(saramaConfig, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to configure security: %w", err)
	}

	return saramaConfig, nil
}

// Message builds the Kafka message for an event without sending it. A
// formatting failure is returned as a *FormatError.
func (k *Kafka) Message(e *cef.Event) (*sarama.ProducerMessage, error) {
	line, err := e.Format()
	if err != nil {
		return nil, &FormatError{err}
	}

	ce := cloudevents.NewEvent()
	ce.SetSpecVersion(cloudevents.VersionV1)
	ce.SetID(uuid.New().String())
	ce.SetType(EventType)
	ce.SetSource(k.source)
	ce.SetSubject(e.SignatureID)
	ce.SetTime(time.Now())
	if err := ce.SetData(ContentTypeText, line); err != nil {
		return nil, fmt.Errorf("failed to set CloudEvent data: %w", err)
	}

	b, err := json.Marshal(ce)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CloudEvent: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(ce.ID()),
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("ce_specversion"), Value: []byte(ce.SpecVersion())},
			{Key: []byte("ce_type"), Value: []byte(ce.Type())},
			{Key: []byte("ce_source"), Value: []byte(ce.Source())},
			{Key: []byte("ce_id"), Value: []byte(ce.ID())},
			{Key: []byte("cef_signature_id"), Value: []byte(e.SignatureID)},
		},
	}, nil
}

// Send publishes the event and waits for the broker to acknowledge it.
func (k *Kafka) Send(ctx context.Context, e *cef.Event) error {
	select {
	case <-k.closed:
		return ErrClosed
	default:
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := k.Message(e)
	if err != nil {
		return err
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	k.logger.Debug("CEF event produced",
		zap.String("topic", k.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.String("signatureId", e.SignatureID),
	)

	return nil
}

// Close closes the producer.
func (k *Kafka) Close() error {
	var err error
	k.closeOnce.Do(func() {
		close(k.closed)
		if k.producer != nil {
			err = k.producer.Close()
		}
	})
	return err
}

func configureSecurity(saramaConfig *sarama.Config, cfg KafkaConfig, logger *zap.Logger) error {
	switch cfg.SecurityProtocol {
	case "", "PLAINTEXT":
		logger.Debug("Using PLAINTEXT security protocol")

	case "SASL_SSL":
		saramaConfig.Net.SASL.Enable = true
		saramaConfig.Net.TLS.Enable = true

		if err := configureSASL(saramaConfig, cfg, logger); err != nil {
			return err
		}

		if err := configureTLS(saramaConfig, cfg, logger); err != nil {
			return err
		}

	case "SASL_PLAINTEXT":
		saramaConfig.Net.SASL.Enable = true

		if err := configureSASL(saramaConfig, cfg, logger); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unsupported security protocol: %s", cfg.SecurityProtocol)
	}

	return nil
}

func configureSASL(saramaConfig *sarama.Config, cfg KafkaConfig, logger *zap.Logger) error {
	switch cfg.SASLMechanism {
	case "PLAIN":
		saramaConfig.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		saramaConfig.Net.SASL.User = cfg.SASLUsername
		saramaConfig.Net.SASL.Password = cfg.SASLPassword

	case "SCRAM-SHA-256":
		saramaConfig.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		saramaConfig.Net.SASL.User = cfg.SASLUsername
		saramaConfig.Net.SASL.Password = cfg.SASLPassword
		saramaConfig.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &XDGSCRAMClient{HashGeneratorFcn: SHA256}
		}

	case "SCRAM-SHA-512":
		saramaConfig.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		saramaConfig.Net.SASL.User = cfg.SASLUsername
		saramaConfig.Net.SASL.Password = cfg.SASLPassword
		saramaConfig.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &XDGSCRAMClient{HashGeneratorFcn: SHA512}
		}

	case "AWS_MSK_IAM":
		if cfg.AWSRegion == "" {
			return fmt.Errorf("AWS MSK IAM authentication requires awsRegion")
		}
		saramaConfig.Net.SASL.Mechanism = sarama.SASLTypeOAuth
		saramaConfig.Net.SASL.TokenProvider = &MSKAccessTokenProvider{region: cfg.AWSRegion}

	default:
		return fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}

	logger.Info("Using SASL authentication", zap.String("mechanism", cfg.SASLMechanism))
	return nil
}

func configureTLS(saramaConfig *sarama.Config, cfg KafkaConfig, logger *zap.Logger) error {
	if !cfg.TLS.Enabled {
		logger.Warn("TLS is required for SASL_SSL but not enabled in config")
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.TLS.InsecureSkipVerify, //nolint:gosec // operator choice
	}

	if cfg.TLS.CACertFile != "" {
		caCert, err := os.ReadFile(cfg.TLS.CACertFile)
		if err != nil {
			return fmt.Errorf("failed to read CA certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return fmt.Errorf("failed to parse CA certificate")
		}

		tlsConfig.RootCAs = pool
	}

	if cfg.TLS.ClientCertFile != "" && cfg.TLS.ClientKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLS.ClientCertFile, cfg.TLS.ClientKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load client certificate: %w", err)
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	saramaConfig.Net.TLS.Config = tlsConfig
	return nil
}

func parseCompressionType(compressionType string) sarama.CompressionCodec {
	switch compressionType {
	case "gzip":
		return sarama.CompressionGZIP
	case "snappy":
		return sarama.CompressionSnappy
	case "lz4":
		return sarama.CompressionLZ4
	case "zstd":
		return sarama.CompressionZSTD
	default:
		return sarama.CompressionNone
	}
}

// MSKAccessTokenProvider supplies AWS MSK IAM tokens to sarama.
type MSKAccessTokenProvider struct {
	region string
}

// Token generates a fresh IAM auth token.
func (m *MSKAccessTokenProvider) Token() (*sarama.AccessToken, error) {
	token, _, err := signer.GenerateAuthToken(context.Background(), m.region)
	if err != nil {
		return nil, err
	}
	return &sarama.AccessToken{Token: token}, nil
}
