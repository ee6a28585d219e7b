package events

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrBufferFull возвращается, если очередь асинхронной публикации заполнена.
var ErrBufferFull = errors.New("event buffer is full")

// AsyncSink публикует события во внутренний приёмник в фоновой горутине.
// Publish никогда не блокируется: при заполненной очереди событие отбрасывается.
type AsyncSink struct {
	next    Sink
	queue   chan Event
	logger  *zap.Logger
	timeout time.Duration
	dropped atomic.Uint64
}

// NewAsyncSink создаёт асинхронный приёмник с очередью на buffer событий.
func NewAsyncSink(next Sink, buffer int, logger *zap.Logger) *AsyncSink {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsyncSink{
		next:    next,
		queue:   make(chan Event, buffer),
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// Publish ставит событие в очередь.
func (a *AsyncSink) Publish(_ context.Context, ev Event) error {
	select {
	case a.queue <- ev:
		return nil
	default:
		a.dropped.Add(1)
		return ErrBufferFull
	}
}

// Dropped возвращает количество отброшенных событий.
func (a *AsyncSink) Dropped() uint64 {
	return a.dropped.Load()
}

// Run доставляет события до отмены контекста, после чего дочитывает очередь.
func (a *AsyncSink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.drain()
			return
		case ev := <-a.queue:
			a.deliver(ev)
		}
	}
}

func (a *AsyncSink) drain() {
	for {
		select {
		case ev := <-a.queue:
			a.deliver(ev)
		default:
			return
		}
	}
}

func (a *AsyncSink) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.next.Publish(ctx, ev); err != nil {
		a.logger.Warn("publish event failed",
			zap.Error(err),
			zap.String("event", ev.ID),
			zap.String("type", string(ev.Type)),
		)
	}
}
