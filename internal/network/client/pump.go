package client

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/protocol/encoding"
)

// readPump 从服务器读取消息，按到达顺序回调
func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.Close()
		c.notifyClose()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.IsConnected() {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		// 服务器只发文本帧
		if frameType != websocket.TextMessage {
			logger.LogDebug("忽略非文本帧 (type %d)", frameType)
			continue
		}

		msg, err := encoding.Decode(data)
		if err != nil {
			logger.LogWarn("消息解析错误: %v", err)
			if c.OnError != nil {
				c.OnError(err)
			}
			continue
		}

		if c.OnMessage != nil {
			c.OnMessage(msg)
		}
		encoding.PutMessage(msg)
	}
}

// writePump 向服务器写入消息
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
