package api

import (
	"context"
	"strings"
	"unicode"
)

// CreateRoom creates a room and joins it as host.
func (c *Client) CreateRoom(ctx context.Context, usernameProposal string) (*SessionReply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reply SessionReply
	if err := c.postJSON(ctx, "create room", PathCreateRoom, CreateRoomRequest{
		UsernameProposal: usernameProposal,
	}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// JoinRoom joins the room identified by joinCode. Separator characters in
// the code are removed before sending.
func (c *Client) JoinRoom(ctx context.Context, joinCode, usernameProposal string) (*SessionReply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reply SessionReply
	if err := c.postJSON(ctx, "join room", PathJoinRoom, JoinRoomRequest{
		JoinCode:         NormalizeJoinCode(joinCode),
		UsernameProposal: usernameProposal,
	}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// LeaveRoom tells the server the player left on purpose. The caller is
// expected to ignore the result.
func (c *Client) LeaveRoom(ctx context.Context, sessionToken string) error {
	return c.postJSON(ctx, "leave room", PathLeaveRoom, LeaveRoomRequest{SessionToken: sessionToken}, nil)
}

// NormalizeJoinCode strips dashes and whitespace, e.g. "AB12-CD34" -> "AB12CD34".
func NormalizeJoinCode(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}
