package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-gravity/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const helloTimeout = 10 * time.Second

// stream is one open realtime WebSocket.
type stream struct {
	conn    *websocket.Conn
	session string
	cancel  context.CancelFunc
}

// Connect implements [RemoteDelegate].
//
// Without heartbeat it opens the stream at GET /api/realtime/{kind} unless
// one is open already; a dial in progress on another goroutine reports
// [models.ConnectConnecting]. With heartbeat it pings the open stream and
// drops it when the ping fails.
func (h *HTTPDelegate[ID, E]) Connect(ctx context.Context, heartbeat bool) models.ConnectStatus {
	h.mu.Lock()
	if h.dialing {
		h.mu.Unlock()
		return models.ConnectConnecting
	}
	st := h.stream
	if st != nil {
		h.mu.Unlock()
		if !heartbeat {
			return models.ConnectConnected
		}
		if err := st.conn.Ping(ctx); err != nil {
			h.dropStream(st, err)
			return models.ConnectDisconnected
		}
		return models.ConnectConnected
	}
	if heartbeat {
		h.mu.Unlock()
		return models.ConnectDisconnected
	}
	h.dialing = true
	h.mu.Unlock()

	st, status := h.dial(ctx)

	h.mu.Lock()
	h.dialing = false
	if st != nil {
		h.stream = st
	}
	h.mu.Unlock()

	return status
}

// Close shuts the realtime stream if one is open.
func (h *HTTPDelegate[ID, E]) Close() {
	h.mu.Lock()
	st := h.stream
	h.stream = nil
	h.mu.Unlock()

	if st != nil {
		st.cancel()
		_ = st.conn.Close(websocket.StatusNormalClosure, "client closing")
	}
}

func (h *HTTPDelegate[ID, E]) dial(ctx context.Context) (*stream, models.ConnectStatus) {
	wsURL := strings.Replace(h.baseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL += "/api/realtime/" + h.kind

	header := http.Header{}
	if token := h.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotImplemented) {
			return nil, models.ConnectUnsupported
		}
		h.logger.Debug().Err(err).Str("func", "*HTTPDelegate.dial").Msg("websocket dial failed")
		return nil, models.ConnectDisconnected
	}

	helloCtx, cancelHello := context.WithTimeout(ctx, helloTimeout)
	defer cancelHello()

	var hello models.StreamMessage
	if err = wsjson.Read(helloCtx, conn, &hello); err != nil || hello.Type != models.StreamHello || hello.Session == "" {
		_ = conn.Close(websocket.StatusProtocolError, "expected hello")
		h.logger.Warn().Err(err).Str("func", "*HTTPDelegate.dial").Str("type", string(hello.Type)).Msg("realtime handshake failed")
		return nil, models.ConnectDisconnected
	}

	readCtx, cancel := context.WithCancel(context.Background())
	st := &stream{conn: conn, session: hello.Session, cancel: cancel}
	go h.readLoop(readCtx, st)

	h.logger.Info().Str("func", "*HTTPDelegate.dial").Str("session", st.session).Msg("realtime stream open")
	return st, models.ConnectConnected
}

func (h *HTTPDelegate[ID, E]) readLoop(ctx context.Context, st *stream) {
	for {
		var msg models.StreamMessage
		if err := wsjson.Read(ctx, st.conn, &msg); err != nil {
			h.dropStream(st, err)
			return
		}
		if err := h.dispatch(msg); err != nil {
			h.logger.Warn().Err(err).Str("func", "*HTTPDelegate.readLoop").Str("type", string(msg.Type)).Msg("bad realtime frame")
		}
	}
}

func (h *HTTPDelegate[ID, E]) dispatch(msg models.StreamMessage) error {
	h.mu.RLock()
	handler := h.onUpdate
	h.mu.RUnlock()
	if handler == nil {
		return nil
	}

	switch msg.Type {
	case models.StreamUpsert:
		entities := make([]E, 0, len(msg.Entities))
		for _, raw := range msg.Entities {
			var e E
			if err := json.Unmarshal(raw, &e); err != nil {
				return fmt.Errorf("decode upserted entity: %w", err)
			}
			entities = append(entities, e)
		}
		handler(entities, nil)
	case models.StreamDelete:
		ids := make([]ID, 0, len(msg.IDs))
		for _, raw := range msg.IDs {
			var id ID
			if err := json.Unmarshal(raw, &id); err != nil {
				return fmt.Errorf("decode deleted id: %w", err)
			}
			ids = append(ids, id)
		}
		handler(nil, ids)
	case models.StreamHello:
	default:
		return fmt.Errorf("unknown frame type %q", msg.Type)
	}
	return nil
}

// dropStream forgets st if it is still the current stream.
func (h *HTTPDelegate[ID, E]) dropStream(st *stream, cause error) {
	h.mu.Lock()
	current := h.stream == st
	if current {
		h.stream = nil
	}
	h.mu.Unlock()

	st.cancel()
	_ = st.conn.CloseNow()

	if current && !errors.Is(cause, context.Canceled) {
		h.logger.Info().Err(cause).Str("func", "*HTTPDelegate.dropStream").Str("session", st.session).Msg("realtime stream lost")
	}
}
