package api

import (
	"errors"
	"fmt"
)

// Category groups request failures for the UI.
type Category string

const (
	CategoryTimeout       Category = "timeout"
	CategoryNoRoomFound   Category = "no_room_found"
	CategoryServerMessage Category = "server_message"
	CategoryRequestFailed Category = "request_failed"
)

// RequestError is returned by every room lifecycle call that fails.
type RequestError struct {
	Category   Category
	Op         string
	HTTPStatus int    // 0 when no response was received
	ServerCode string // StatusCode from the error body, if any
	Message    string // Message from the error body, if any
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Category, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Category, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Category)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage is the value shown to the user: the server's message verbatim
// when it sent one we do not recognize, the category otherwise.
func (e *RequestError) UserMessage() string {
	if e.Category == CategoryServerMessage && e.Message != "" {
		return e.Message
	}
	return string(e.Category)
}

// CategoryOf returns the category of err, or CategoryRequestFailed for errors
// that did not come from this package.
func CategoryOf(err error) Category {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Category
	}
	return CategoryRequestFailed
}

// UserMessage returns the user-facing flag value for any error.
func UserMessage(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.UserMessage()
	}
	return string(CategoryRequestFailed)
}
