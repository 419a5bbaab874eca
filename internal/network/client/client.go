package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/protocol/encoding"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	handshakeTimeout = 10 * time.Second
	sendBufferSize   = 256
	maxMessageSize   = 1 << 20
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
	ErrAlreadyConnected = errors.New("already connected")
)

// Client WebSocket 客户端，一个 Client 对应一条连接，断开后不会自动重连
type Client struct {
	ServerURL    string
	SessionToken string // 只在握手时作为 query 参数发送

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	// 回调，均在读协程中调用
	OnMessage func(*protocol.Message) // 消息回调
	OnError   func(error)             // 错误回调
	OnClose   func()                  // 关闭回调

	mu        sync.RWMutex
	started   bool
	closed    bool
	closeOnce sync.Once
}

// NewClient 创建客户端
func NewClient(serverURL, sessionToken string) *Client {
	return &Client{
		ServerURL:    serverURL,
		SessionToken: sessionToken,
		send:         make(chan []byte, sendBufferSize),
		done:         make(chan struct{}),
	}
}

// dialURL 在服务器地址上附加 sessionToken
func (c *Client) dialURL() (string, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	q := u.Query()
	q.Set("sessionToken", c.SessionToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect 连接服务器，握手成功后启动读写协程
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.started = true
	c.mu.Unlock()

	target, err := c.dialURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrConnectionClosed
	}
	c.conn = conn
	c.mu.Unlock()

	// 启动读写协程
	go c.readPump()
	go c.writePump()

	return nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	c.mu.RLock()
	if c.closed || c.conn == nil {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}
	c.mu.RUnlock()

	data, err := encoding.Encode(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return ErrSendBufferFull
	}
}

// Emit 编码并发送一个事件
func (c *Client) Emit(event protocol.MessageType, payload any) error {
	msg, err := encoding.NewMessage(event, payload)
	if err != nil {
		return err
	}
	defer encoding.PutMessage(msg)
	return c.SendMessage(msg)
}

// Close 关闭连接，可重复调用
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// Done 连接关闭时关闭的 channel
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) notifyClose() {
	c.closeOnce.Do(func() {
		if c.OnClose != nil {
			c.OnClose()
		}
	})
}
