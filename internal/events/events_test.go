package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_KeepsLastEvents(t *testing.T) {
	r := NewRecorder(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, r.Publish(ctx, Event{ID: fmt.Sprintf("evt_%d", i)}))
	}

	got := r.Events(0)
	require.Len(t, got, 3)
	assert.Equal(t, "evt_3", got[0].ID)
	assert.Equal(t, "evt_5", got[2].ID)

	last := r.Events(2)
	require.Len(t, last, 2)
	assert.Equal(t, "evt_4", last[0].ID)

	r.Clear()
	assert.Empty(t, r.Events(10))
}

func TestRecorder_Subscribe(t *testing.T) {
	r := NewRecorder(10)
	ch, unsubscribe := r.Subscribe(1)

	require.NoError(t, r.Publish(context.Background(), Event{ID: "evt_1"}))
	// Буфер подписчика заполнен: второе событие пропускается без блокировки.
	require.NoError(t, r.Publish(context.Background(), Event{ID: "evt_2"}))

	select {
	case ev := <-ch:
		assert.Equal(t, "evt_1", ev.ID)
	case <-time.After(time.Second):
		t.Fatalf("subscriber did not receive event")
	}

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
}

func TestTracker_PairsRequestAndResponse(t *testing.T) {
	r := NewRecorder(10)
	tr := NewTracker(r)
	ctx := context.Background()

	call := tr.Request(ctx, TypeCreateCheckout, "POST", "/api/v1/checkout-sessions", "", map[string]any{"line_items": []any{}})
	tr.Response(ctx, call, "cs_1", 200, json.RawMessage(`{"id":"cs_1"}`))

	got := r.Events(0)
	require.Len(t, got, 2)

	req, resp := got[0], got[1]
	assert.Equal(t, "evt_000001", req.ID)
	assert.Equal(t, DirectionRequest, req.Direction)
	assert.JSONEq(t, `{"line_items":[]}`, string(req.Body))

	assert.Equal(t, req.ID+"_resp", resp.ID)
	assert.Equal(t, DirectionResponse, resp.Direction)
	assert.Equal(t, TypeCreateCheckout, resp.Type)
	assert.Equal(t, "cs_1", resp.SessionID)
	assert.Equal(t, 200, resp.StatusCode)
	assert.GreaterOrEqual(t, resp.DurationMS, 0.0)
}

func TestTracker_NilSinkAndCall(t *testing.T) {
	tr := NewTracker(nil)
	call := tr.Request(context.Background(), TypeGetCheckout, "GET", "/x", "cs_1", nil)
	assert.Equal(t, "cs_1", call.SessionID)

	tr.Response(context.Background(), nil, "", 200, nil)
	assert.Equal(t, "evt_000002", tr.NextID())
}

func TestTracker_Error(t *testing.T) {
	rec := NewRecorder(10)
	tr := NewTracker(rec)
	ctx := context.Background()

	call := tr.Request(ctx, TypeGetCheckout, "GET", "/api/v1/checkout-sessions/cs_1", "cs_1", nil)
	tr.Error(ctx, call, "", 500, map[string]string{"status": "requires_escalation"})
	tr.Error(ctx, nil, "", 500, nil)

	evs := rec.Events(0)
	require.Len(t, evs, 2)
	assert.Equal(t, TypeError, evs[1].Type)
	assert.Equal(t, call.ID+"_err", evs[1].ID)
	assert.Equal(t, "cs_1", evs[1].SessionID)
	assert.Equal(t, 500, evs[1].StatusCode)
	assert.Equal(t, call.ID, CallID(evs[1].ID))
	assert.Equal(t, "Error", Format(evs[1]).Title)
}

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	var delivered int
	m := Multi{
		SinkFunc(func(context.Context, Event) error { delivered++; return nil }),
		nil,
		SinkFunc(func(context.Context, Event) error { return boom }),
		SinkFunc(func(context.Context, Event) error { delivered++; return nil }),
	}

	err := m.Publish(context.Background(), Event{ID: "evt_1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, delivered)
}

func TestAsyncSink_DoesNotBlockAndDrops(t *testing.T) {
	release := make(chan struct{})
	blocking := SinkFunc(func(ctx context.Context, ev Event) error {
		<-release
		return nil
	})

	a := NewAsyncSink(blocking, 1, nil)

	require.NoError(t, a.Publish(context.Background(), Event{ID: "evt_1"}))

	done := make(chan error, 1)
	go func() { done <- a.Publish(context.Background(), Event{ID: "evt_2"}) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrBufferFull)
	case <-time.After(time.Second):
		t.Fatalf("Publish blocked on a full queue")
	}
	assert.Equal(t, uint64(1), a.Dropped())
	close(release)
}

func TestAsyncSink_DeliversAndDrainsOnStop(t *testing.T) {
	var mu sync.Mutex
	var ids []string
	sink := SinkFunc(func(ctx context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, ev.ID)
		return errors.New("ignored")
	})

	a := NewAsyncSink(sink, 10, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, a.Publish(context.Background(), Event{ID: fmt.Sprintf("evt_%d", i)}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, ids, 5)
}

func TestRedisSink_PublishAndTrim(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sink := NewRedisSink(client, 2)
	ctx := context.Background()

	sub := client.Subscribe(ctx, defaultRedisChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, sink.Publish(ctx, Event{ID: fmt.Sprintf("evt_%d", i), Type: TypeGetCheckout}))
	}

	raw, err := client.LRange(ctx, defaultRedisList, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, raw, 2)

	var newest Event
	require.NoError(t, json.Unmarshal([]byte(raw[0]), &newest))
	assert.Equal(t, "evt_3", newest.ID)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, "evt_1", ev.ID)
}

func TestRedisSink_PublishError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sink := NewRedisSink(client, 10)
	mr.Close()

	err := sink.Publish(context.Background(), Event{ID: "evt_1"})
	assert.Error(t, err)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaSink_KeysByCall(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{writer: w}
	ctx := context.Background()

	require.NoError(t, sink.Publish(ctx, Event{ID: "evt_000001", Type: TypeCreateCheckout, Direction: DirectionRequest}))
	require.NoError(t, sink.Publish(ctx, Event{ID: "evt_000001_resp", SessionID: "cs_1", Type: TypeCreateCheckout, Direction: DirectionResponse}))
	require.NoError(t, sink.Publish(ctx, Event{ID: "evt_000002_err", SessionID: "cs_1", Type: TypeError, Direction: DirectionResponse}))

	require.Len(t, w.msgs, 3)
	assert.Equal(t, "evt_000001", string(w.msgs[0].Key))
	assert.Equal(t, string(w.msgs[0].Key), string(w.msgs[1].Key))
	assert.Equal(t, "evt_000002", string(w.msgs[2].Key))
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, "create_checkout", string(w.msgs[0].Headers[0].Value))

	w.err = errors.New("broker down")
	assert.Error(t, sink.Publish(ctx, Event{ID: "evt_3"}))
	assert.NoError(t, sink.Close())
}

func TestFormat(t *testing.T) {
	d := Format(Event{ID: "evt_1", Type: TypeCompleteCheckout, Body: json.RawMessage(`{"a":1}`)})
	assert.Equal(t, "Complete Checkout", d.Title)
	assert.Equal(t, `{"a":1}`, d.BodyPreview)

	unknown := Format(Event{Type: Type("custom")})
	assert.Equal(t, "custom", unknown.Title)
}
