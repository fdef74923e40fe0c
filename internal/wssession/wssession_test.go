package wssession

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mkw.dev/clipfeed/internal/feed"
	"go.mkw.dev/clipfeed/internal/hub"
	"go.mkw.dev/clipfeed/internal/protocol"
)

func startRelay(t *testing.T) (*httptest.Server, *hub.Hub, *feed.Store) {
	t.Helper()
	store := feed.NewStore()
	h := hub.New(store)
	srv := httptest.NewServer(Handler(h))
	t.Cleanup(srv.Close)
	return srv, h, store
}

func dialTest(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.DecodeMessage(data)
	require.NoError(t, err)
	return msg
}

func TestSessionIDsAreUniquePerSession(t *testing.T) {
	// ids must not be derived from the connection: after a disconnect, OS
	// port reuse can hand a newcomer the same remote address as a dying
	// session, whose deferred disconnect would then evict it
	a := newSession(nil)
	b := newSession(nil)

	assert.NotEmpty(t, a.ID())
	assert.NotEmpty(t, b.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGreetingIsFullSync(t *testing.T) {
	srv, _, store := startRelay(t)
	store.Append(protocol.NewTextSubmission("already here"))

	conn := dialTest(t, srv)

	msg := readMessage(t, conn)
	assert.Equal(t, protocol.TypeSync, msg.Type)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, "already here", msg.Items[0].Data)
}

func TestSubmissionFansOutToAllSessions(t *testing.T) {
	srv, _, store := startRelay(t)

	publisher := dialTest(t, srv)
	observer := dialTest(t, srv)
	readMessage(t, publisher) // greetings
	readMessage(t, observer)

	require.NoError(t, publisher.WriteJSON(protocol.NewTextSubmission("hello")))

	for _, conn := range []*websocket.Conn{publisher, observer} {
		msg := readMessage(t, conn)
		assert.Equal(t, protocol.TypeAdd, msg.Type)
		require.NotNil(t, msg.Item)
		assert.Equal(t, "hello", msg.Item.Data)
		assert.Equal(t, protocol.KindText, msg.Item.Kind)
		assert.NotEmpty(t, msg.Item.ID)
		assert.False(t, msg.Item.CreatedAt.IsZero())
	}

	assert.Equal(t, 1, store.Len())
}

func TestBadFramesAreToleratedNotFatal(t *testing.T) {
	srv, _, store := startRelay(t)

	conn := dialTest(t, srv)
	readMessage(t, conn)

	// garbage, then an invalid submission, then a valid one: the session
	// survives and only the valid entry comes back
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(protocol.Submission{Kind: "sync", Data: "forged"}))
	require.NoError(t, conn.WriteJSON(protocol.NewTextSubmission("legit")))

	msg := readMessage(t, conn)
	assert.Equal(t, protocol.TypeAdd, msg.Type)
	require.NotNil(t, msg.Item)
	assert.Equal(t, "legit", msg.Item.Data)
	assert.Equal(t, 1, store.Len())
}

func TestDisconnectPrunesRegistry(t *testing.T) {
	srv, h, _ := startRelay(t)

	conn := dialTest(t, srv)
	readMessage(t, conn)
	require.Equal(t, 1, h.Sessions())

	conn.Close()

	assert.Eventually(t, func() bool { return h.Sessions() == 0 },
		5*time.Second, 10*time.Millisecond, "session never removed")
}

func TestSendFailureStopsOnlyThatSession(t *testing.T) {
	srv, h, _ := startRelay(t)

	healthy := dialTest(t, srv)
	doomed := dialTest(t, srv)
	readMessage(t, healthy)
	readMessage(t, doomed)

	// kill the doomed client's TCP side without a close handshake
	require.NoError(t, doomed.UnderlyingConn().Close())

	require.NoError(t, healthy.WriteJSON(protocol.NewTextSubmission("still flowing")))

	msg := readMessage(t, healthy)
	assert.Equal(t, protocol.TypeAdd, msg.Type)

	assert.Eventually(t, func() bool { return h.Sessions() == 1 },
		5*time.Second, 10*time.Millisecond, "doomed session never removed")
}
