// internal/service/cart/undo.go
package cart

import (
	"context"
	"fmt"
	"time"

	"storefront-agent/internal/domain/cart"
	"storefront-agent/internal/notify"
	xerrors "storefront-agent/internal/pkg/errors"
)

// armUndoLocked records line as the removal that can be undone and starts its
// expiry timer. It returns the notice id to show the offer under and the id of
// the offer it superseded, if any, which the caller dismisses.
func (m *Manager) armUndoLocked(line cart.Line) (noticeID, superseded string) {
	superseded = m.cancelUndoLocked()

	m.undoSeq++
	seq := m.undoSeq
	noticeID = notify.NewID()
	m.pending = &pendingUndo{
		line:     line,
		noticeID: noticeID,
		seq:      seq,
		timer:    time.AfterFunc(m.cfg.UndoWindow, func() { m.expireUndo(seq) }),
	}
	return noticeID, superseded
}

// cancelUndoLocked drops the pending undo and stops its timer. It returns the
// notice id to dismiss, or "".
func (m *Manager) cancelUndoLocked() string {
	if m.pending == nil {
		return ""
	}
	m.pending.timer.Stop()
	id := m.pending.noticeID
	m.pending = nil
	return id
}

// expireUndo runs when the window of undo seq closes. A newer undo has its own
// seq, so a timer that fires late cannot clear it.
func (m *Manager) expireUndo(seq uint64) {
	m.mu.Lock()
	if m.closed || m.pending == nil || m.pending.seq != seq {
		m.mu.Unlock()
		return
	}
	id := m.pending.noticeID
	m.pending = nil
	m.touchLocked()
	m.mu.Unlock()

	m.notifier.Dismiss(id)
	m.publish()
}

// UndoLastRemoval puts the last removed line back at the quantity it had.
// The pending record is consumed whether or not the restore succeeds.
func (m *Manager) UndoLastRemoval(ctx context.Context) error {
	release, err := m.begin(ctx, "change your cart")
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return xerrors.ErrNoPendingUndo
	}
	line := m.pending.line
	offer := m.cancelUndoLocked()
	epoch := m.startLocked()
	m.mu.Unlock()

	m.notifier.Dismiss(offer)
	m.publish()

	remote, err := m.remote.AddItem(ctx, line.ProductID, line.Quantity)

	m.mu.Lock()
	if err != nil {
		display := m.failure("restore "+line.Product.Name, err)
		applied := m.finishLocked(epoch, cart.PhaseReady)
		if applied {
			m.errMsg = display.Error()
		}
		m.mu.Unlock()

		if applied {
			m.notifier.Notify(notify.New(notify.LevelError, fmt.Sprintf("Could not restore %s: %s", line.Product.Name, display)))
			m.publish()
		}
		return display
	}

	applied := m.finishLocked(epoch, cart.PhaseReady)
	if applied {
		m.lines = Normalize(remote)
		m.errMsg = ""
	}
	m.mu.Unlock()

	if applied {
		m.notifier.Notify(notify.New(notify.LevelSuccess, fmt.Sprintf("%s is back in your cart", line.Product.Name)))
		m.publish()
	}
	return nil
}
