package server

import (
	"encoding/json"
	"sync"
)

const (
	eventMoved         = "moved"
	eventStatusChanged = "status_changed"
)

// SessionEvent is the payload published to a session's subscribers.
type SessionEvent struct {
	Type          string `json:"type"`
	SessionID     string `json:"session_id"`
	AirportID     int    `json:"airport_id,omitempty"`
	BatteryLevel  int    `json:"battery_level"`
	PuzzlesSolved int    `json:"puzzles_solved"`
	Status        string `json:"status"`
}

// Broker is an in-process pub/sub for session events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Subscribers reports how many channels listen on a session.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

// Publish sends an event to every subscriber of its session. Slow
// subscribers miss events rather than block the publisher.
func (b *Broker) Publish(event SessionEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[event.SessionID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}
