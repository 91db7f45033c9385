// tensu-crm/internal/handlers/status_hub_test.go

package handlers

import (
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
}

func TestStatusHubReconnectEvictsPreviousClient(t *testing.T) {
	t.Parallel()

	hub := NewStatusHub(fixedClock)

	first := &statusClient{hub: hub, send: make(chan []byte, 8), userID: 7}
	second := &statusClient{hub: hub, send: make(chan []byte, 8), userID: 7}

	hub.addClient(first)
	hub.addClient(second)

	// Канал вытесненного соединения закрыт - его writePump завершится сразу.
	select {
	case _, open := <-first.send:
		if open {
			t.Fatal("evicted client's channel delivered a message instead of closing")
		}
	default:
		t.Fatal("evicted client's channel was not closed")
	}

	if hub.clients[7] != second {
		t.Fatal("new connection must replace the evicted one in the registry")
	}
}

func TestStatusHubStaleUnregisterKeepsNewClient(t *testing.T) {
	t.Parallel()

	hub := NewStatusHub(fixedClock)

	first := &statusClient{hub: hub, send: make(chan []byte, 8), userID: 7}
	second := &statusClient{hub: hub, send: make(chan []byte, 8), userID: 7}

	hub.addClient(first)
	hub.addClient(second)

	// readPump старого соединения умирает позже и шлет свой unregister -
	// он не должен снять с учета новое соединение того же пользователя.
	hub.removeClient(first)
	if hub.clients[7] != second {
		t.Fatal("stale unregister must not remove the replacement client")
	}

	hub.removeClient(second)
	if _, ok := hub.clients[7]; ok {
		t.Fatal("client must be removed by its own unregister")
	}
	if _, open := <-second.send; open {
		t.Fatal("removed client's channel must be closed")
	}
}
