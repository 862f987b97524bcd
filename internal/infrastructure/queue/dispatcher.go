package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/shopstack/accounts-api/internal/api/metrics"
	"github.com/shopstack/accounts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes outbound notifications to a fixed set of workers using
// consistent hashing on the recipient address, guaranteeing per-recipient
// delivery ordering. Enqueue never blocks the request path up to
// channelBuffer capacity; delivery failures are logged and counted rather
// than surfaced to the caller, so a flaky mail relay cannot fail a
// registration that already persisted its token.
type Dispatcher struct {
	workers  []chan ports.Notification
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.Notification, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker responsible for its recipient.
func (d *Dispatcher) Enqueue(n ports.Notification) {
	i := d.shardIndex(n.To)
	d.workers[i] <- n
	metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(i)).Inc()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(worker).Dec()
			if err := d.notifier.Send(ctx, n); err != nil {
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("to", n.To).
					Str("subject", n.Subject).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}
}
