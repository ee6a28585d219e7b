package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/mmeshcher/ucp-checkout/internal/events"
)

const (
	defaultEventsLimit = 50
	initialEventsLimit = 20
	subscriberBuffer   = 64
	keepaliveInterval  = 30 * time.Second
)

type eventsResponse struct {
	Events []events.Display `json:"events"`
	Count  int              `json:"count"`
}

func displayAll(evs []events.Event) []events.Display {
	out := make([]events.Display, 0, len(evs))
	for _, ev := range evs {
		out = append(out, events.Format(ev))
	}
	return out
}

// Events возвращает последние события протокола.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		limit = n
	}

	list := displayAll(h.log.Events(limit))
	writeJSON(w, http.StatusOK, eventsResponse{Events: list, Count: len(list)})
}

// ClearEvents очищает журнал событий.
func (h *Handler) ClearEvents(w http.ResponseWriter, r *http.Request) {
	h.log.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// wsFrame это кадр, отправляемый клиенту визуализатора.
type wsFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// wsCommand это команда от клиента визуализатора.
type wsCommand struct {
	Type  string `json:"type"`
	Limit int    `json:"limit,omitempty"`
}

// EventStream возвращает WebSocket-обработчик потока событий.
func (h *Handler) EventStream() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		h.handleEventStream(conn)
	})
}

func (h *Handler) handleEventStream(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	feed, unsubscribe := h.log.Subscribe(subscriberBuffer)
	defer unsubscribe()

	enc := json.NewEncoder(conn)
	send := func(f wsFrame) bool {
		if err := enc.Encode(f); err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			return false
		}
		return true
	}

	if !send(wsFrame{Type: "connected", Message: "Connected to UCP event stream"}) {
		return
	}
	for _, ev := range h.log.Events(initialEventsLimit) {
		if !send(wsFrame{Type: "event", Data: events.Format(ev)}) {
			return
		}
	}

	commands := make(chan wsCommand)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(done)
		dec := json.NewDecoder(conn)
		for {
			var cmd wsCommand
			if err := dec.Decode(&cmd); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				var syntaxErr *json.SyntaxError
				if errors.As(err, &syntaxErr) {
					dec = json.NewDecoder(conn)
					continue
				}
				return
			}
			select {
			case commands <- cmd:
			case <-stop:
				return
			}
		}
	}()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		var ok bool
		select {
		case <-done:
			return
		case ev, open := <-feed:
			if !open {
				return
			}
			ok = send(wsFrame{Type: "event", Data: events.Format(ev)})
		case cmd := <-commands:
			ok = h.handleCommand(cmd, send)
		case <-keepalive.C:
			ok = send(wsFrame{Type: "keepalive"})
		}
		if !ok {
			return
		}
	}
}

func (h *Handler) handleCommand(cmd wsCommand, send func(wsFrame) bool) bool {
	switch cmd.Type {
	case "ping":
		return send(wsFrame{Type: "pong"})
	case "get_events":
		limit := cmd.Limit
		if limit <= 0 {
			limit = defaultEventsLimit
		}
		return send(wsFrame{Type: "events_list", Data: displayAll(h.log.Events(limit))})
	case "clear":
		h.log.Clear()
		return send(wsFrame{Type: "cleared", Message: "Event store cleared"})
	default:
		return true
	}
}
