package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, userID int) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, hub.Subscribe(w, r, userID))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestHubNotify(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 1)

	hub.Notify(1, EntityInvoices, ViewActive)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EntityInvoices, event.Entity)
	assert.Equal(t, ViewActive, event.View)
}

func TestHubNotifyBoth(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 1)

	hub.NotifyBoth(1, EntityClients)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	views := make(map[string]bool)
	for i := 0; i < 2; i++ {
		var event Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, EntityClients, event.Entity)
		views[event.View] = true
	}
	assert.True(t, views[ViewActive])
	assert.True(t, views[ViewTrash])
}

func TestHubScopesEventsToUser(t *testing.T) {
	hub := NewHub()
	mine := dialHub(t, hub, 1)
	theirs := dialHub(t, hub, 2)

	hub.Notify(1, EntityInvoices, ViewActive)

	mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, mine.ReadJSON(&event))

	theirs.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var leaked Event
	err := theirs.ReadJSON(&leaked)
	assert.Error(t, err, "other users must not receive the event")
}

func TestHubNotifyWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	// Must not panic or block
	hub.Notify(99, EntityInvoices, ViewActive)
	hub.NotifyBoth(99, EntityClients)
}
