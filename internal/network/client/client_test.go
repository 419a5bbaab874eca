package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/protocol/encoding"
)

var upgrader = websocket.Upgrader{}

type echoServer struct {
	*httptest.Server
	mu     sync.Mutex
	tokens []string
}

func newEchoServer(t *testing.T) *echoServer {
	t.Helper()
	s := &echoServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.tokens = append(s.tokens, r.URL.Query().Get("sessionToken"))
		s.mu.Unlock()

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				break
			}
			// simple echo
			_ = c.WriteMessage(mt, message)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *echoServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
}

func (s *echoServer) seenTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tokens...)
}

func TestClient_ConnectAndSend(t *testing.T) {
	s := newEchoServer(t)

	received := make(chan protocol.Message, 1)
	client := NewClient(s.wsURL(), "tok-1")
	client.OnMessage = func(msg *protocol.Message) {
		received <- protocol.Message{Type: msg.Type, Payload: msg.Payload}
	}

	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()
	assert.True(t, client.IsConnected())
	assert.Equal(t, []string{"tok-1"}, s.seenTokens())

	require.NoError(t, client.KickPlayer("p-2"))

	select {
	case msg := <-received:
		assert.Equal(t, protocol.MsgKickPlayer, msg.Type)
		var payload protocol.KickPlayerPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "p-2", payload.PlayerID)
	case <-time.After(time.Second):
		t.Fatal("echo not received")
	}
}

func TestClient_MessagesInOrder(t *testing.T) {
	s := newEchoServer(t)

	var mu sync.Mutex
	var got []protocol.MessageType
	client := NewClient(s.wsURL(), "tok")
	client.OnMessage = func(msg *protocol.Message) {
		mu.Lock()
		got = append(got, msg.Type)
		mu.Unlock()
	}
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	require.NoError(t, client.StartGame())
	require.NoError(t, client.DrawCard())
	require.NoError(t, client.PlayCard(2, nil))
	require.NoError(t, client.UpdatePlayedCard(json.RawMessage(`{"Color":3}`)))

	want := []protocol.MessageType{
		protocol.MsgStartGame, protocol.MsgDrawCard, protocol.MsgPlayCard, protocol.MsgUpdatePlayedCard,
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == len(want)
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}

func TestClient_PlayCardPayload(t *testing.T) {
	msg, err := encoding.NewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{
		CardIndex: intPtr(0),
		CardData:  json.RawMessage(`{"Color":1}`),
	})
	require.NoError(t, err)
	data, err := encoding.Encode(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"PlayCard","data":{"CardIndex":0,"CardData":{"Color":1}}}`, string(data))
}

func TestClient_ConnectFailure(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws", "tok")
	err := client.Connect(context.Background())
	assert.Error(t, err)
	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.StartGame(), ErrConnectionClosed)
}

func TestClient_ConnectTwice(t *testing.T) {
	s := newEchoServer(t)
	client := NewClient(s.wsURL(), "tok")
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	assert.ErrorIs(t, client.Connect(context.Background()), ErrAlreadyConnected)
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	s := newEchoServer(t)

	closed := make(chan struct{}, 2)
	client := NewClient(s.wsURL(), "tok")
	client.OnClose = func() { closed <- struct{}{} }
	require.NoError(t, client.Connect(context.Background()))

	client.Close()
	client.Close()
	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.DrawCard(), ErrConnectionClosed)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("OnClose not called")
	}
	select {
	case <-closed:
		t.Fatal("OnClose called twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClient_ServerClose(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = c.WriteMessage(websocket.TextMessage, []byte(`{"event":"Status","data":{"IsError":false}}`))
		_ = c.Close()
	}))
	defer s.Close()

	var mu sync.Mutex
	var events []string
	client := NewClient("ws"+strings.TrimPrefix(s.URL, "http"), "tok")
	client.OnMessage = func(msg *protocol.Message) {
		mu.Lock()
		events = append(events, string(msg.Type))
		mu.Unlock()
	}
	client.OnClose = func() {
		mu.Lock()
		events = append(events, "close")
		mu.Unlock()
	}
	require.NoError(t, client.Connect(context.Background()))

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("client not closed")
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Status", "close"}, events)
	assert.False(t, client.IsConnected())
}

func TestClient_InvalidFrameReportsError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		_ = c.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_, _, _ = c.ReadMessage()
	}))
	defer s.Close()

	errs := make(chan error, 1)
	client := NewClient("ws"+strings.TrimPrefix(s.URL, "http"), "tok")
	client.OnError = func(err error) { errs <- err }
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("no error reported")
	}
	assert.True(t, client.IsConnected())
}

func intPtr(v int) *int { return &v }
