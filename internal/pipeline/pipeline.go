// Package pipeline moves events from a source to a sink, counting and logging
// the ones that cannot be encoded or delivered.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/zostay/go-cef"
	"github.com/zostay/go-cef/internal/metrics"
	"github.com/zostay/go-cef/internal/record"
	"github.com/zostay/go-cef/sink"
)

// Source yields events until it returns io.EOF.
type Source interface {
	Next() (*cef.Event, error)
}

// Stats summarizes a run.
type Stats struct {
	Encoded  int
	Rejected int
}

// Pipeline delivers events from a source to a sink.
type Pipeline struct {
	Sink    sink.Sink
	Output  string // label used for metrics
	Metrics *metrics.Collector
	Logger  *zap.Logger

	// SkipInvalid keeps going past events that cannot be decoded or
	// formatted. Delivery failures always stop the run.
	SkipInvalid bool
}

func (p *Pipeline) reject(stats *Stats, reason string, err error) error {
	stats.Rejected++
	if p.Metrics != nil {
		p.Metrics.IncRejected(p.Output, reason)
	}

	p.logger().Warn("rejected event", zap.String("reason", reason), zap.Error(err))

	if reason == metrics.ReasonSend || !p.SkipInvalid {
		return err
	}
	return nil
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Run reads src until it is exhausted, the context ends, or an error stops the
// run.
func (p *Pipeline) Run(ctx context.Context, src Source) (Stats, error) {
	var stats Stats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		e, err := src.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}

		if err != nil {
			var le *record.LineError
			if !errors.As(err, &le) {
				return stats, err
			}

			if err := p.reject(&stats, metrics.ReasonDecode, err); err != nil {
				return stats, err
			}
			continue
		}

		start := time.Now()
		if err := p.Sink.Send(ctx, e); err != nil {
			var fe *sink.FormatError
			if errors.As(err, &fe) {
				if err := p.reject(&stats, metrics.ReasonFormat, err); err != nil {
					return stats, err
				}
				continue
			}

			return stats, p.reject(&stats, metrics.ReasonSend, fmt.Errorf("delivery failed: %w", err))
		}

		stats.Encoded++
		if p.Metrics != nil {
			p.Metrics.ObserveSend(p.Output, time.Since(start).Seconds())
			p.Metrics.IncEncoded(p.Output)
		}
	}
}
