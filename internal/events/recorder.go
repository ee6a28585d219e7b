package events

import (
	"context"
	"sync"
)

// DefaultRecorderSize это количество последних событий, которые хранит Recorder.
const DefaultRecorderSize = 100

// Recorder хранит последние события в памяти и рассылает их подписчикам.
type Recorder struct {
	mu          sync.RWMutex
	max         int
	events      []Event
	subscribers map[int]chan Event
	nextSub     int
}

// NewRecorder создаёт хранилище на size последних событий.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = DefaultRecorderSize
	}
	return &Recorder{
		max:         size,
		subscribers: make(map[int]chan Event),
	}
}

// Publish сохраняет событие и уведомляет подписчиков.
// Медленный подписчик пропускает события, но не задерживает публикацию.
func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
	if len(r.events) > r.max {
		r.events = append([]Event(nil), r.events[len(r.events)-r.max:]...)
	}

	for _, ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}

	return nil
}

// Events возвращает не более limit последних событий в порядке публикации.
func (r *Recorder) Events(limit int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}

	return append([]Event(nil), r.events[len(r.events)-limit:]...)
}

// Clear удаляет все сохранённые события.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Subscribe возвращает канал новых событий и функцию отписки.
func (r *Recorder) Subscribe(buffer int) (<-chan Event, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++

	ch := make(chan Event, buffer)
	r.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subscribers, id)
			close(ch)
		})
	}
}
