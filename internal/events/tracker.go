package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	responseSuffix = "_resp"
	errorSuffix    = "_err"
)

// Tracker фиксирует пары событий запрос/ответ.
// Идентификатор ответа строится из идентификатора запроса.
type Tracker struct {
	sink    Sink
	counter atomic.Uint64
	now     func() time.Time
}

// NewTracker создаёт Tracker, публикующий события в sink.
func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = Discard
	}
	return &Tracker{
		sink: sink,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// NextID возвращает следующий идентификатор события.
func (t *Tracker) NextID() string {
	return fmt.Sprintf("evt_%06d", t.counter.Add(1))
}

// Call описывает одну отслеживаемую операцию.
type Call struct {
	ID        string
	Type      Type
	Method    string
	Path      string
	SessionID string
	started   time.Time
}

// Request фиксирует событие запроса и возвращает описание вызова для последующего ответа.
func (t *Tracker) Request(ctx context.Context, typ Type, method, path, sessionID string, body any) *Call {
	c := &Call{
		ID:        t.NextID(),
		Type:      typ,
		Method:    method,
		Path:      path,
		SessionID: sessionID,
		started:   t.now(),
	}

	_ = t.sink.Publish(ctx, Event{
		ID:        c.ID,
		Type:      typ,
		Direction: DirectionRequest,
		Timestamp: c.started,
		SessionID: sessionID,
		Method:    method,
		Path:      path,
		Body:      encodeBody(body),
	})

	return c
}

// Response фиксирует событие ответа на ранее зафиксированный запрос.
// sessionID позволяет дополнить вызов идентификатором, ставшим известным после операции.
func (t *Tracker) Response(ctx context.Context, c *Call, sessionID string, statusCode int, body any) {
	if c == nil {
		return
	}
	if sessionID == "" {
		sessionID = c.SessionID
	}

	now := t.now()
	_ = t.sink.Publish(ctx, Event{
		ID:         c.ID + responseSuffix,
		Type:       c.Type,
		Direction:  DirectionResponse,
		Timestamp:  now,
		SessionID:  sessionID,
		Method:     c.Method,
		Path:       c.Path,
		StatusCode: statusCode,
		DurationMS: float64(now.Sub(c.started).Microseconds()) / 1000,
		Body:       encodeBody(body),
	})
}

// Error фиксирует событие ошибки, возникшей при обработке вызова.
// Идентификатор события строится из идентификатора запроса с суффиксом _err.
func (t *Tracker) Error(ctx context.Context, c *Call, sessionID string, statusCode int, body any) {
	if c == nil {
		return
	}
	if sessionID == "" {
		sessionID = c.SessionID
	}

	_ = t.sink.Publish(ctx, Event{
		ID:         c.ID + errorSuffix,
		Type:       TypeError,
		Direction:  DirectionResponse,
		Timestamp:  t.now(),
		SessionID:  sessionID,
		Method:     c.Method,
		Path:       c.Path,
		StatusCode: statusCode,
		Body:       encodeBody(body),
	})
}

// CallID возвращает идентификатор запроса, к которому относится событие.
func CallID(eventID string) string {
	for _, suffix := range []string{responseSuffix, errorSuffix} {
		if id, ok := strings.CutSuffix(eventID, suffix); ok {
			return id
		}
	}
	return eventID
}

func encodeBody(body any) json.RawMessage {
	switch v := body.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return v
	case []byte:
		if json.Valid(v) {
			return v
		}
		return nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	return data
}
