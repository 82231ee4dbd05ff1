package main

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"slidesmith/document"
)

// DeckUpdateMessage is pushed to every connected client after a store
// mutation, including asynchronous image merges.
type DeckUpdateMessage struct {
	Type string        `json:"type"`
	Deck document.Deck `json:"deck"`
}

// Hub tracks websocket subscribers per editing session and fans deck
// updates out to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]bool)}
}

// SubscribeAndSend registers a connection and writes the current snapshot to
// it in one step. Holding the hub lock for the write keeps it serialized with
// BroadcastDeck; the connection must never be written outside the lock once
// it is registered.
func (h *Hub) SubscribeAndSend(sessionID string, conn *websocket.Conn, deck document.Deck) error {
	payload, err := json.Marshal(DeckUpdateMessage{Type: "deck", Deck: deck})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*websocket.Conn]bool)
	}
	h.conns[sessionID][conn] = true
	return nil
}

// Unsubscribe drops a connection. The caller closes it.
func (h *Hub) Unsubscribe(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set := h.conns[sessionID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, sessionID)
		}
	}
}

// BroadcastDeck sends the new deck snapshot to every subscriber of the
// session. Connections that fail to write are dropped.
func (h *Hub) BroadcastDeck(sessionID string, deck document.Deck) {
	msg := DeckUpdateMessage{Type: "deck", Deck: deck}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[sessionID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.conns[sessionID], conn)
		}
	}
	if len(h.conns[sessionID]) == 0 {
		delete(h.conns, sessionID)
	}
}

// CloseSession closes and forgets every connection of a session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[sessionID] {
		conn.Close()
	}
	delete(h.conns, sessionID)
}
