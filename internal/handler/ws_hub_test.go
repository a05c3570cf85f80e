package handler

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestConn(viewer, gameID string) *WSConn {
	return &WSConn{
		conn:   nil, // no real connection for hub tests
		viewer: viewer,
		gameID: gameID,
		send:   make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("viewer-1", "game-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}
	if hub.GameSubscriberCount("game-1") != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.GameSubscriberCount("game-1"))
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	if hub.GameSubscriberCount("game-1") != 0 {
		t.Errorf("expected 0 subscribers after unregister")
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub()
	c := newTestConn("viewer-1", "game-1")
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c) // must not close the channel again
}

func TestHubBroadcastToGame(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("viewer-1", "game-1")
	c2 := newTestConn("viewer-2", "game-1")
	c3 := newTestConn("viewer-3", "game-2")

	for _, c := range []*WSConn{c1, c2, c3} {
		hub.Register(c)
		defer hub.Unregister(c)
	}

	hub.BroadcastToGame("game-1", WSEvent{
		Type:   EventSnapshot,
		GameID: "game-1",
		Data:   map[string]int{"turn": 3},
	})

	// c1 and c2 should receive, c3 watches another game
	select {
	case msg := <-c1.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != EventSnapshot {
			t.Errorf("expected snapshot, got %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
		// ok
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received broadcast")
	default:
		// ok
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := &WSConn{viewer: "slow", gameID: "game-1", send: make(chan []byte, 1)}
	hub.Register(c)
	defer hub.Unregister(c)

	hub.BroadcastToGame("game-1", WSEvent{Type: "a", GameID: "game-1"})
	hub.BroadcastToGame("game-1", WSEvent{Type: "b", GameID: "game-1"})

	var event WSEvent
	json.Unmarshal(<-c.send, &event)
	if event.Type != "a" {
		t.Errorf("expected the first event to be kept, got %s", event.Type)
	}
	select {
	case <-c.send:
		t.Error("the second event should have been dropped")
	default:
	}
}

func TestHubSendToUnregistered(t *testing.T) {
	hub := NewHub()
	c := newTestConn("viewer-1", "game-1")
	hub.Register(c)
	hub.Unregister(c)

	// Sending on a closed channel would panic.
	hub.sendTo(c, WSEvent{Type: EventConnected})
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	// Concurrently register, broadcast, unregister
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestConn("viewer", "game-1")
			hub.Register(c)
			hub.BroadcastToGame("game-1", WSEvent{Type: "test", GameID: "game-1"})
			hub.Unregister(c)
		}()
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastGameEvent(t *testing.T) {
	hub := NewHub()
	c := newTestConn("viewer-1", "game-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.BroadcastGameEvent("game-1", "combat_resolved", map[string]string{"target": "b"})

	select {
	case msg := <-c.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != "combat_resolved" {
			t.Errorf("expected combat_resolved, got %s", event.Type)
		}
		if event.GameID != "game-1" {
			t.Errorf("expected game-1, got %s", event.GameID)
		}
	case <-time.After(time.Second):
		t.Error("did not receive broadcast")
	}
}
