package sink_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-cef/field"
	"github.com/zostay/go-cef/sink"
)

func TestKafka_Send(t *testing.T) {
	t.Parallel()

	e := testEvent(t, "worm stopped")
	want := e.String()

	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ce map[string]any
		if err := json.Unmarshal(val, &ce); err != nil {
			return err
		}
		if ce["data"] != want {
			return fmt.Errorf("data = %v, want %q", ce["data"], want)
		}
		if ce["type"] != sink.EventType {
			return fmt.Errorf("type = %v", ce["type"])
		}
		if ce["source"] != "sensor-1" {
			return fmt.Errorf("source = %v", ce["source"])
		}
		if ce["subject"] != "100" {
			return fmt.Errorf("subject = %v", ce["subject"])
		}
		return nil
	})
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := sink.NewKafkaWithProducer(sp, "cef", "sensor-1", nil)
	ctx := context.Background()

	require.NoError(t, k.Send(ctx, e))

	err := k.Send(ctx, e)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))

	// formatting failures never reach the producer
	err = k.Send(ctx, testEvent(t, "bad\rname"))
	assert.ErrorIs(t, err, field.ErrInvalidField)
	var fe *sink.FormatError
	assert.ErrorAs(t, err, &fe)
	assert.NotErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, k.Close())
	assert.ErrorIs(t, k.Send(ctx, e), sink.ErrClosed)
	require.NoError(t, k.Close())
}

func TestKafka_Message(t *testing.T) {
	t.Parallel()

	k := sink.NewKafkaWithProducer(nil, "cef", "", nil)
	msg, err := k.Message(testEvent(t, "msg"))
	require.NoError(t, err)

	assert.Equal(t, "cef", msg.Topic)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[string(h.Key)] = string(h.Value)
	}
	assert.Equal(t, sink.EventType, headers["ce_type"])
	assert.Equal(t, sink.DefaultSource, headers["ce_source"])
	assert.Equal(t, "100", headers["cef_signature_id"])

	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, headers["ce_id"], string(key))
}

func TestSaramaConfig(t *testing.T) {
	t.Parallel()

	cfg := sink.KafkaConfig{
		Brokers:          []string{"localhost:9092"},
		SecurityProtocol: "SASL_PLAINTEXT",
		SASLMechanism:    "SCRAM-SHA-512",
		SASLUsername:     "user",
		SASLPassword:     "pass",
		Producer: sink.ProducerConfig{
			RequiredAcks:     -1,
			CompressionType:  "zstd",
			IdempotentWrites: true,
			RetryMax:         3,
		},
	}

	sc, err := sink.SaramaConfig(cfg, nil)
	require.NoError(t, err)
	assert.True(t, sc.Net.SASL.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA512), sc.Net.SASL.Mechanism)
	assert.Equal(t, sarama.CompressionZSTD, sc.Producer.Compression)
	assert.Equal(t, sarama.WaitForAll, sc.Producer.RequiredAcks)
	assert.Equal(t, 1, sc.Net.MaxOpenRequests)
	require.NotNil(t, sc.Net.SASL.SCRAMClientGeneratorFunc)
	assert.IsType(t, &sink.XDGSCRAMClient{}, sc.Net.SASL.SCRAMClientGeneratorFunc())

	cfg.SASLMechanism = "KERBEROS-ISH"
	_, err = sink.SaramaConfig(cfg, nil)
	assert.Error(t, err)

	cfg.SecurityProtocol = "CARRIER_PIGEON"
	_, err = sink.SaramaConfig(cfg, nil)
	assert.Error(t, err)

	cfg.SecurityProtocol = "SASL_SSL"
	cfg.SASLMechanism = "AWS_MSK_IAM"
	_, err = sink.SaramaConfig(cfg, nil)
	assert.Error(t, err)
}
