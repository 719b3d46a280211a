// Package relay fans group status events out to connected monitor viewers.
// It keeps no history: a viewer only receives events broadcast after it
// subscribed.
package relay

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

const (
	EventGroupUpdate = "group-update"
	EventGroupsSync  = "groups-sync"

	defaultViewerBuffer = 16
)

// Frame is the wire envelope of every server to viewer message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Viewer struct {
	ID   string
	send chan []byte
	once sync.Once
}

// Messages yields encoded frames. It is closed when the viewer is removed.
func (v *Viewer) Messages() <-chan []byte {
	return v.send
}

func (v *Viewer) close() {
	v.once.Do(func() { close(v.send) })
}

type Hub struct {
	mu      sync.RWMutex
	viewers map[string]*Viewer
	buffer  int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultViewerBuffer
	}
	return &Hub{
		viewers: make(map[string]*Viewer),
		buffer:  buffer,
	}
}

func (h *Hub) Subscribe() *Viewer {
	v := &Viewer{
		ID:   uuid.NewString(),
		send: make(chan []byte, h.buffer),
	}

	h.mu.Lock()
	h.viewers[v.ID] = v
	count := len(h.viewers)
	h.mu.Unlock()

	connectedViewers.Set(float64(count))
	logger.Infof("Monitor viewer connected: %s (%d connected)", v.ID, count)

	return v
}

func (h *Hub) Unsubscribe(v *Viewer) {
	h.mu.Lock()
	_, ok := h.viewers[v.ID]
	delete(h.viewers, v.ID)
	count := len(h.viewers)
	h.mu.Unlock()

	if ok {
		v.close()
		connectedViewers.Set(float64(count))
		logger.Infof("Monitor viewer disconnected: %s (%d connected)", v.ID, count)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

func (h *Hub) BroadcastGroupUpdate(update domain.GroupStatusUpdate) (int, error) {
	n, err := h.broadcast(EventGroupUpdate, update)
	if err == nil {
		logger.Debugf("Broadcast %s: %s", EventGroupUpdate, update.GroupName)
	}
	return n, err
}

// BroadcastGroupsSync re-emits groups exactly as received.
func (h *Hub) BroadcastGroupsSync(groups []json.RawMessage) (int, error) {
	if groups == nil {
		groups = []json.RawMessage{}
	}
	n, err := h.broadcast(EventGroupsSync, groups)
	if err == nil {
		logger.Debugf("Broadcast %s of %d groups", EventGroupsSync, len(groups))
	}
	return n, err
}

// broadcast never blocks: a viewer whose buffer is full is dropped. It
// returns how many viewers received the frame.
func (h *Hub) broadcast(event string, data any) (int, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", event, err)
	}

	frame, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		return 0, fmt.Errorf("failed to encode frame: %w", err)
	}

	var slow []*Viewer
	delivered := 0

	h.mu.RLock()
	for _, v := range h.viewers {
		select {
		case v.send <- frame:
			delivered++
		default:
			slow = append(slow, v)
		}
	}
	h.mu.RUnlock()

	for _, v := range slow {
		logger.Warnf("Dropping slow monitor viewer %s", v.ID)
		h.Unsubscribe(v)
	}

	broadcastsTotal.WithLabelValues(event).Inc()

	return delivered, nil
}
