package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBoard_ReplacesByID(t *testing.T) {
	board := NewBoard(0)

	loading := New(LevelLoading, "Adding to cart...")
	board.Notify(loading)
	board.Notify(Follow(loading.ID, LevelSuccess, "Added to cart"))

	active := board.Active()
	require.Len(t, active, 1)
	assert.Equal(t, LevelSuccess, active[0].Level)
	assert.Equal(t, loading.ID, active[0].ID)
}

func TestBoard_DismissAndLimit(t *testing.T) {
	board := NewBoard(2)

	first := New(LevelInfo, "one")
	second := New(LevelInfo, "two")
	third := New(LevelInfo, "three")
	board.Notify(first)
	board.Notify(second)
	board.Notify(third)

	active := board.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "two", active[0].Message)

	board.Dismiss(second.ID)
	_, ok := board.Find(second.ID)
	assert.False(t, ok)

	n, ok := board.Find(third.ID)
	require.True(t, ok)
	assert.Equal(t, "three", n.Message)
}

func TestNotice_IDsAreUnique(t *testing.T) {
	a, b := New(LevelInfo, "a"), New(LevelInfo, "a")
	assert.NotEqual(t, a.ID, b.ID)

	undo := a.WithUndo("Undo")
	require.NotNil(t, undo.Action)
	assert.Equal(t, ActionUndo, undo.Action.Kind)
	assert.Nil(t, a.Action)
}

func TestFanout(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	board := NewBoard(0)
	fan := Fanout{NewLogNotifier(zap.New(core)), board}

	n := New(LevelError, "Could not add to cart")
	fan.Notify(n)
	assert.Len(t, board.Active(), 1)
	assert.Equal(t, 1, logs.FilterMessage("notice").Len())

	fan.Dismiss(n.ID)
	assert.Empty(t, board.Active())
	assert.Equal(t, 1, logs.FilterMessage("notice dismissed").Len())
}
