package relay_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/covoiturage-api/internal/relay"
	"github.com/iliyamo/covoiturage-api/internal/router"
)

// newRelayServer starts a hub plus a real HTTP server exposing the
// websocket route, and returns the hub and the ws:// URL to dial.
func newRelayServer(t *testing.T, onAccept func(relay.DriverAccept)) (*relay.Hub, string) {
	t.Helper()
	hub := relay.NewHub(onAccept)
	go hub.Run()

	e := echo.New()
	router.RegisterRelay(e, relay.NewHandler(hub))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	// Give the hub a moment to process the registration before any
	// broadcast is sent from another connection.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, eventType string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(relay.Envelope{Type: eventType, Data: raw}))
}

type recvFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) recvFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f recvFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// expectSilence asserts that no frame arrives within a short window.  The
// connection is unusable for further reads afterwards, so call it last.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var f recvFrame
	require.Error(t, conn.ReadJSON(&f))
}

func TestDriverTripBroadcastSkipsSender(t *testing.T) {
	hub, url := newRelayServer(t, nil)
	driver := dial(t, url)
	watcher := dial(t, url)

	sendEvent(t, driver, relay.EventDriverTrip, relay.DriverTrip{
		DriverID: "d1", From: "Dakar", To: "Thiès", Places: 2,
	})

	f := readFrame(t, watcher)
	require.Equal(t, relay.EventDriverTrip, f.Type)
	var trip relay.DriverTrip
	require.NoError(t, json.Unmarshal(f.Data, &trip))
	require.Equal(t, "d1", trip.DriverID)
	require.Equal(t, "Thiès", trip.To)
	require.Equal(t, 2, trip.Places)

	require.Eventually(t, func() bool { return hub.DriverOnline("d1") },
		time.Second, 10*time.Millisecond)

	expectSilence(t, driver)
}

func TestDriverPositionFansOut(t *testing.T) {
	_, url := newRelayServer(t, nil)
	driver := dial(t, url)
	w1 := dial(t, url)
	w2 := dial(t, url)

	sendEvent(t, driver, relay.EventDriverPosition, relay.DriverPosition{
		ID: "d1", Lat: 14.6928, Lng: -17.4467,
	})

	for _, w := range []*websocket.Conn{w1, w2} {
		f := readFrame(t, w)
		require.Equal(t, relay.EventDriverPosition, f.Type)
		var pos relay.DriverPosition
		require.NoError(t, json.Unmarshal(f.Data, &pos))
		require.Equal(t, "d1", pos.ID)
		require.InDelta(t, 14.6928, pos.Lat, 1e-9)
		require.InDelta(t, -17.4467, pos.Lng, 1e-9)
	}
}

func TestClientMatchReachesOnlyBoundDriver(t *testing.T) {
	_, url := newRelayServer(t, nil)
	driver := dial(t, url)
	watcher := dial(t, url)
	rider := dial(t, url)

	sendEvent(t, driver, relay.EventDriverTrip, relay.DriverTrip{
		DriverID: "d1", From: "Dakar", To: "Thiès", Places: 2,
	})
	// The trip announcement reaching the rider proves the binding is in
	// place, since binding happens before the broadcast.
	require.Equal(t, relay.EventDriverTrip, readFrame(t, watcher).Type)
	require.Equal(t, relay.EventDriverTrip, readFrame(t, rider).Type)

	sendEvent(t, rider, relay.EventClientMatch, relay.ClientMatch{
		Client: "alice", DriverID: "d1",
	})

	f := readFrame(t, driver)
	require.Equal(t, relay.EventClientMatch, f.Type)
	var match relay.ClientMatch
	require.NoError(t, json.Unmarshal(f.Data, &match))
	require.Equal(t, "alice", match.Client)

	expectSilence(t, watcher)
	expectSilence(t, rider)
}

func TestClientMatchToUnknownDriverIsDropped(t *testing.T) {
	hub, url := newRelayServer(t, nil)
	sender := dial(t, url)
	other := dial(t, url)

	sendEvent(t, sender, relay.EventClientMatch, relay.ClientMatch{
		Client: "alice", DriverID: "ghost",
	})
	require.False(t, hub.DriverOnline("ghost"))

	// The relay keeps working after the drop: the next broadcast still
	// reaches the other peer, and nothing stale precedes it.
	sendEvent(t, sender, relay.EventDriverPosition, relay.DriverPosition{
		ID: "d1", Lat: 1, Lng: 2,
	})
	f := readFrame(t, other)
	require.Equal(t, relay.EventDriverPosition, f.Type)
}

func TestDriverAcceptBroadcastsAndNotifies(t *testing.T) {
	accepts := make(chan relay.DriverAccept, 1)
	_, url := newRelayServer(t, func(ev relay.DriverAccept) { accepts <- ev })
	driver := dial(t, url)
	rider := dial(t, url)

	sendEvent(t, driver, relay.EventDriverAccept, relay.DriverAccept{
		DriverID: "d1", Client: "alice",
	})

	f := readFrame(t, rider)
	require.Equal(t, relay.EventDriverAccept, f.Type)
	var accept relay.DriverAccept
	require.NoError(t, json.Unmarshal(f.Data, &accept))
	require.Equal(t, "d1", accept.DriverID)
	require.Equal(t, "alice", accept.Client)

	select {
	case got := <-accepts:
		require.Equal(t, "d1", got.DriverID)
		require.Equal(t, "alice", got.Client)
	case <-time.After(2 * time.Second):
		t.Fatal("accept callback never fired")
	}
}

func TestDriverBindingClearedOnDisconnect(t *testing.T) {
	hub, url := newRelayServer(t, nil)
	driver := dial(t, url)

	sendEvent(t, driver, relay.EventDriverTrip, relay.DriverTrip{
		DriverID: "d1", From: "Dakar", To: "Thiès", Places: 2,
	})
	require.Eventually(t, func() bool { return hub.DriverOnline("d1") },
		time.Second, 10*time.Millisecond)

	driver.Close()
	require.Eventually(t, func() bool { return !hub.DriverOnline("d1") },
		time.Second, 10*time.Millisecond)
}

func TestMalformedFrameIsIgnored(t *testing.T) {
	_, url := newRelayServer(t, nil)
	sender := dial(t, url)
	other := dial(t, url)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("not json")))
	sendEvent(t, sender, "unknownEvent", map[string]string{"x": "y"})

	// The connection survives both bad frames and still relays.
	sendEvent(t, sender, relay.EventDriverPosition, relay.DriverPosition{
		ID: "d1", Lat: 1, Lng: 2,
	})
	f := readFrame(t, other)
	require.Equal(t, relay.EventDriverPosition, f.Type)
}
