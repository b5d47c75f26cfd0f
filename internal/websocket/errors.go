// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrHubClosed      = errors.New("hub is closed")
	ErrUnknownChannel = errors.New("unknown channel")
)
