// Package statsd reports pipeline timings to a DogStatsD agent. It keeps the
// datadog dependency out of the rest of the module.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/plus3/obelisk/ecs"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	metricTick           = "tick"
	metricProcessor      = "processor"
	metricProcessorFault = "processor.fault"
	metricTickFault      = "tick.fault"
)

var _ ecs.TickObserver = (*Observer)(nil)

// Observer is an ecs.TickObserver that emits tick and per-processor timings.
type Observer struct {
	client ddstatsd.ClientInterface
	logger *zap.Logger
}

// New connects to the agent at address. namespace prefixes every metric.
func New(address, namespace string, tags []string, logger *zap.Logger) (*Observer, error) {
	if address == "" {
		return nil, eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		ddstatsd.WithNamespace(namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	client, err := ddstatsd.New(address, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "statsd client for %s", address)
	}
	return NewWithClient(client, logger), nil
}

// NewWithClient wraps an existing client. A nil client disables emission.
func NewWithClient(client ddstatsd.ClientInterface, logger *zap.Logger) *Observer {
	if client == nil {
		client = &ddstatsd.NoOpClient{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{client: client, logger: logger}
}

func (o *Observer) ProcessorDone(name string, d time.Duration, err error) {
	tags := []string{"processor:" + name}
	o.warn(o.client.Timing(metricProcessor, d, tags, 1))
	if err != nil {
		o.warn(o.client.Incr(metricProcessorFault, tags, 1))
	}
}

func (o *Observer) TickDone(_ uint64, d time.Duration, err error) {
	o.warn(o.client.Timing(metricTick, d, nil, 1))
	if err != nil {
		o.warn(o.client.Incr(metricTickFault, nil, 1))
	}
}

// Close flushes and closes the underlying client.
func (o *Observer) Close() error {
	return o.client.Close()
}

func (o *Observer) warn(err error) {
	if err != nil {
		o.logger.Warn("failed to emit stat", zap.Error(err))
	}
}
