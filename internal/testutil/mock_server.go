//go:build !production

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/protocol/encoding"
)

// FakeRoom is the server-side view of a room kept by FakeServer.
type FakeRoom struct {
	RoomID     string
	JoinCode   string
	GameState  protocol.GameState
	CardDeckID int
	TopCard    protocol.Card
	Players    []protocol.PlayerInfo
}

type fakeSession struct {
	playerID string
	joinCode string
}

// FakeServer 模拟 HexDeck 服务端：HTTP 房间接口 + /ws 实时通道
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	rooms    map[string]*FakeRoom
	sessions map[string]fakeSession
	conns    map[string]*websocket.Conn
	nextID   int

	createDelay     time.Duration
	disableRoomInfo bool

	joinBodies  []map[string]any
	leaveTokens []string
	received    []protocol.Message
	requestIDs  []string
	receivedCh  chan struct{}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// NewFakeServer starts a server that is closed when the test ends.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &FakeServer{
		rooms:      make(map[string]*FakeRoom),
		sessions:   make(map[string]fakeSession),
		conns:      make(map[string]*websocket.Conn),
		receivedCh: make(chan struct{}, 256),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, c.GetHeader("X-Request-Id"))
		s.mu.Unlock()
		c.Next()
	})
	r.POST("/api/room/create", s.handleCreate)
	r.POST("/api/room/join", s.handleJoin)
	r.POST("/api/room/leave", s.handleLeave)
	r.GET("/api/check/session", s.handleCheckSession)
	r.GET("/api/check/joinCode", s.handleCheckJoinCode)
	r.GET("/api/stats", s.handleStats)
	r.GET("/ws", s.handleWS)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// WSURL returns the realtime endpoint.
func (s *FakeServer) WSURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
}

// AddRoom registers a room in lobby state.
func (s *FakeServer) AddRoom(joinCode string) *FakeRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addRoomLocked(joinCode)
}

func (s *FakeServer) addRoomLocked(joinCode string) *FakeRoom {
	s.nextID++
	room := &FakeRoom{
		RoomID:     fmt.Sprintf("room-%d", s.nextID),
		JoinCode:   joinCode,
		GameState:  protocol.GameStateLobby,
		CardDeckID: protocol.CardDeckHexV1,
		TopCard:    protocol.Card(`{"Color":0,"Symbol":"5"}`),
	}
	s.rooms[joinCode] = room
	return room
}

// AddSession adds a player to the room and returns its session token.
func (s *FakeServer) AddSession(joinCode, username string, perms protocol.Permissions) (token, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSessionLocked(joinCode, username, perms)
}

func (s *FakeServer) addSessionLocked(joinCode, username string, perms protocol.Permissions) (string, string) {
	s.nextID++
	token := fmt.Sprintf("token-%d", s.nextID)
	playerID := fmt.Sprintf("player-%d", s.nextID)
	s.sessions[token] = fakeSession{playerID: playerID, joinCode: joinCode}
	if room, ok := s.rooms[joinCode]; ok {
		room.Players = append(room.Players, protocol.PlayerInfo{
			PlayerID:    playerID,
			Username:    username,
			Permissions: perms,
		})
	}
	return token, playerID
}

func (s *FakeServer) sessionReply(token, playerID, username string, perms protocol.Permissions) gin.H {
	return gin.H{
		"SessionToken": token,
		"PlayerId":     playerID,
		"Username":     username,
		"Permissions":  perms,
	}
}

// SetCreateDelay makes /api/room/create wait before answering.
func (s *FakeServer) SetCreateDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createDelay = d
}

// DisableRoomInfo stops the RoomInfo push that follows every connect.
func (s *FakeServer) DisableRoomInfo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disableRoomInfo = true
}

func (s *FakeServer) handleCreate(c *gin.Context) {
	s.mu.Lock()
	delay := s.createDelay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	var req struct{ UsernameProposal string }
	_ = c.BindJSON(&req)

	s.mu.Lock()
	room := s.addRoomLocked(fmt.Sprintf("%06d", 100000+s.nextID))
	perms := protocol.Permissions(0).With(protocol.PermissionHost)
	token, playerID := s.addSessionLocked(room.JoinCode, req.UsernameProposal, perms)
	s.mu.Unlock()

	c.JSON(http.StatusOK, s.sessionReply(token, playerID, req.UsernameProposal, perms))
}

func (s *FakeServer) handleJoin(c *gin.Context) {
	var body map[string]any
	_ = c.BindJSON(&body)

	s.mu.Lock()
	s.joinBodies = append(s.joinBodies, body)
	joinCode, _ := body["JoinCode"].(string)
	username, _ := body["UsernameProposal"].(string)
	room, ok := s.rooms[joinCode]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"StatusCode": protocol.StatusInvalidJoinCode, "Message": "No valid joinCode was provided"})
		return
	}
	if room.GameState != protocol.GameStateLobby {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"StatusCode": protocol.StatusGameAlreadyRunning, "Message": "You cannot join this room as the game has already started"})
		return
	}
	token, playerID := s.addSessionLocked(joinCode, username, 0)
	s.mu.Unlock()

	c.JSON(http.StatusOK, s.sessionReply(token, playerID, username, 0))
}

func (s *FakeServer) handleLeave(c *gin.Context) {
	var req struct{ SessionToken string }
	_ = c.BindJSON(&req)

	s.mu.Lock()
	s.leaveTokens = append(s.leaveTokens, req.SessionToken)
	_, ok := s.sessions[req.SessionToken]
	delete(s.sessions, req.SessionToken)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"StatusCode": protocol.StatusInvalidSession, "Message": "No user was found with the provided sessionToken"})
		return
	}
	c.Status(http.StatusOK)
}

func (s *FakeServer) handleCheckSession(c *gin.Context) {
	s.mu.Lock()
	_, ok := s.sessions[c.Query("sessionToken")]
	s.mu.Unlock()
	if ok {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusUnauthorized)
}

func (s *FakeServer) handleCheckJoinCode(c *gin.Context) {
	s.mu.Lock()
	_, ok := s.rooms[c.Query("JoinCode")]
	s.mu.Unlock()
	if ok {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusUnauthorized)
}

func (s *FakeServer) handleStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"TotalGamesPlayed":  7,
		"RunningGames":      len(s.rooms),
		"OnlinePlayerCount": len(s.conns),
	})
}

func (s *FakeServer) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	token := c.Query("sessionToken")

	s.mu.Lock()
	sess, ok := s.sessions[token]
	if !ok {
		s.mu.Unlock()
		_ = writeEvent(conn, protocol.MsgStatus, protocol.StatusPayload{
			IsError:    true,
			StatusCode: protocol.StatusInvalidSession,
			Message:    protocol.StatusMessages[protocol.StatusInvalidSession],
		})
		_ = conn.Close()
		return
	}
	if old, exists := s.conns[token]; exists {
		_ = writeEvent(old, protocol.MsgStatus, protocol.StatusPayload{
			IsError:    true,
			StatusCode: protocol.StatusSupersededConnection,
			Message:    protocol.StatusMessages[protocol.StatusSupersededConnection],
		})
		_ = old.Close()
	}
	s.conns[token] = conn
	room := s.rooms[sess.joinCode]
	if room != nil && !s.disableRoomInfo {
		_ = writeEvent(conn, protocol.MsgRoomInfo, roomInfo(room))
	}
	s.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		msg, err := encoding.Decode(data)
		if err != nil {
			continue
		}
		s.mu.Lock()
		s.received = append(s.received, protocol.Message{Type: msg.Type, Payload: msg.Payload})
		s.mu.Unlock()
		select {
		case s.receivedCh <- struct{}{}:
		default:
		}
	}

	s.mu.Lock()
	if s.conns[token] == conn {
		delete(s.conns, token)
	}
	s.mu.Unlock()
}

func roomInfo(room *FakeRoom) *protocol.RoomInfoPayload {
	players := make([]protocol.PlayerInfo, len(room.Players))
	copy(players, room.Players)
	return &protocol.RoomInfoPayload{
		RoomID:     room.RoomID,
		JoinCode:   room.JoinCode,
		GameState:  room.GameState,
		TopCard:    room.TopCard,
		CardDeckID: room.CardDeckID,
		Players:    players,
	}
}

func writeEvent(conn *websocket.Conn, event protocol.MessageType, payload any) error {
	msg, err := encoding.NewMessage(event, payload)
	if err != nil {
		return err
	}
	data, err := encoding.Encode(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Push sends an event to the live connection of token.
func (s *FakeServer) Push(token string, event protocol.MessageType, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[token]
	if !ok {
		return fmt.Errorf("no connection for %s", token)
	}
	return writeEvent(conn, event, payload)
}

// Drop closes the server side of token's connection.
func (s *FakeServer) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn, ok := s.conns[token]; ok {
		_ = conn.Close()
		delete(s.conns, token)
	}
}

// Connected reports whether token has a live realtime connection.
func (s *FakeServer) Connected(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.conns[token]
	return ok
}

// Room returns the room with joinCode.
func (s *FakeServer) Room(joinCode string) *FakeRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[joinCode]
}

// SetGameState changes a room's state, e.g. to make joins fail.
func (s *FakeServer) SetGameState(joinCode string, state protocol.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[joinCode]; ok {
		room.GameState = state
	}
}

// JoinBodies returns the decoded bodies of every join request.
func (s *FakeServer) JoinBodies() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.joinBodies...)
}

// LeaveTokens returns the session tokens of every leave request.
func (s *FakeServer) LeaveTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.leaveTokens...)
}

// RequestIDs returns the X-Request-Id header of every HTTP request.
func (s *FakeServer) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Received returns every message the server read from clients.
func (s *FakeServer) Received() []protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Message(nil), s.received...)
}

// WaitReceived blocks until at least n messages arrived or timeout elapses.
func (s *FakeServer) WaitReceived(n int, timeout time.Duration) []protocol.Message {
	deadline := time.After(timeout)
	for {
		if msgs := s.Received(); len(msgs) >= n {
			return msgs
		}
		select {
		case <-s.receivedCh:
		case <-deadline:
			return s.Received()
		}
	}
}

// DecodePayload is a helper for asserting on Received messages.
func DecodePayload[T any](t *testing.T, msg protocol.Message) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		t.Fatalf("decode %s payload: %v", msg.Type, err)
	}
	return v
}
