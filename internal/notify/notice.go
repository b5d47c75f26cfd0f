// Package notify carries transient shopper-facing notices (the toasts and
// snackbars a UI shows) from the managers to whoever renders them.
package notify

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// ActionUndo marks a notice whose action restores the line just removed.
const ActionUndo = "undo"

type Action struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// Notice is one transient message. A later notice with the same ID replaces
// the earlier one, which is how a loading notice turns into its outcome.
type Notice struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Action    *Action   `json:"action,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewID returns a sortable notice id.
func NewID() string {
	return ulid.Make().String()
}

func New(level Level, message string) Notice {
	return Notice{ID: NewID(), Level: level, Message: message, CreatedAt: time.Now()}
}

// Follow builds the outcome of an earlier notice, reusing its id.
func Follow(id string, level Level, message string) Notice {
	return Notice{ID: id, Level: level, Message: message, CreatedAt: time.Now()}
}

// WithUndo attaches the undo action to n.
func (n Notice) WithUndo(label string) Notice {
	n.Action = &Action{Kind: ActionUndo, Label: label}
	return n
}
