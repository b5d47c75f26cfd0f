// internal/service/cart/operations.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront-agent/internal/api"
	"storefront-agent/internal/domain/cart"
	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/notify"
	xerrors "storefront-agent/internal/pkg/errors"

	"go.uber.org/zap"
)

// ========== Load ==========

// Load replaces the local cart with the server's. Without a session the cart
// goes to Empty and nothing is fetched. A failed load keeps whatever the last
// successful one produced.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return xerrors.ErrClosed
	}
	if !m.session.IsAuthenticated() {
		m.lines = nil
		m.errMsg = ""
		m.loadedOnce = false
		m.phase = cart.PhaseEmpty
		m.touchLocked()
		m.mu.Unlock()
		m.publish()
		return xerrors.ErrUnauthenticated
	}
	m.phase = cart.PhaseLoading
	m.touchLocked()
	epoch := m.epoch
	m.mu.Unlock()
	m.publish()

	remote, err := m.remote.GetCart(ctx)

	m.mu.Lock()
	if m.closed || epoch != m.epoch {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		display := m.failure("load the cart", err)
		if !m.loadedOnce {
			m.lines = nil
		}
		m.errMsg = display.Error()
		m.phase = cart.PhaseReady
		if m.inflight > 0 {
			m.phase = cart.PhaseMutating
		}
		m.touchLocked()
		m.mu.Unlock()

		m.notifier.Notify(notify.New(notify.LevelError, "Could not load your cart"))
		m.publish()
		return display
	}

	m.lines = Normalize(remote)
	m.loadedOnce = true
	m.errMsg = ""
	m.phase = cart.PhaseReady
	if m.inflight > 0 {
		m.phase = cart.PhaseMutating
	}
	m.touchLocked()
	m.mu.Unlock()

	m.publish()
	return nil
}

// ========== Add ==========

// AddOne adds a single unit of product, with loading and outcome notices.
func (m *Manager) AddOne(ctx context.Context, product catalog.Product) error {
	return m.addOne(ctx, product, false)
}

// AddOneQuiet is AddOne without the loading and success notices, for the
// increment button inside the cart. Refusals and failures still notify.
func (m *Manager) AddOneQuiet(ctx context.Context, product catalog.Product) error {
	return m.addOne(ctx, product, true)
}

func (m *Manager) addOne(ctx context.Context, product catalog.Product, quiet bool) error {
	release, err := m.begin(ctx, "add products to your cart")
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	current := 0
	if line, ok := m.findLocked(product.ID); ok {
		current = line.Quantity
	}
	if current+1 > product.Stock {
		m.mu.Unlock()
		m.notifier.Notify(notify.New(notify.LevelError, stockMessage(product.Name, product.Stock)))
		return xerrors.ErrStockExceeded
	}
	epoch := m.startLocked()
	m.mu.Unlock()
	m.publish()

	var noticeID string
	if !quiet {
		loading := notify.New(notify.LevelLoading, fmt.Sprintf("Adding %s to your cart...", product.Name))
		noticeID = loading.ID
		m.notifier.Notify(loading)
	}

	remote, err := m.remote.AddItem(ctx, product.ID, 1)

	m.mu.Lock()
	if err != nil {
		display := m.failure("add "+product.Name, err)
		if isStockRejection(err) {
			display = xerrors.ErrStockExceeded
		}
		applied := m.finishLocked(epoch, cart.PhaseReady)
		if applied {
			m.errMsg = display.Error()
		}
		m.mu.Unlock()

		if applied {
			m.notifyOutcome(noticeID, notify.LevelError, fmt.Sprintf("Could not add %s: %s", product.Name, display))
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
		if !quiet {
			m.notifyOutcome(noticeID, notify.LevelSuccess, fmt.Sprintf("%s added to your cart", product.Name))
		}
		m.publish()
	}
	return nil
}

func stockMessage(name string, stock int) string {
	if stock <= 0 {
		return fmt.Sprintf("%s is out of stock", name)
	}
	return fmt.Sprintf("Only %d units of %s available", stock, name)
}

// isStockRejection reports the backend refusing an add it considers invalid,
// which it does for quantities beyond stock.
func isStockRejection(err error) bool {
	code := api.StatusCode(err)
	return code == http.StatusBadRequest || code == http.StatusConflict
}

// ========== Remove ==========

// RemoveOne takes a single unit off productID. Taking the last unit removes
// the line optimistically and offers an undo.
func (m *Manager) RemoveOne(ctx context.Context, productID int64) error {
	release, err := m.begin(ctx, "change your cart")
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	line, ok := m.findLocked(productID)
	if !ok {
		m.mu.Unlock()
		m.notifier.Notify(notify.New(notify.LevelError, xerrors.ErrLineNotFound.Error()))
		return xerrors.ErrLineNotFound
	}
	if line.Quantity <= 1 {
		m.mu.Unlock()
		return m.removeOptimistic(ctx, line, m.remote.RemoveOne)
	}
	epoch := m.startLocked()
	m.mu.Unlock()
	m.publish()

	remote, err := m.remote.RemoveOne(ctx, productID)

	m.mu.Lock()
	if err != nil {
		display := m.failure("decrement "+line.Product.Name, err)
		applied := m.finishLocked(epoch, cart.PhaseReady)
		if applied {
			m.errMsg = display.Error()
		}
		m.mu.Unlock()

		if applied {
			m.notifier.Notify(notify.New(notify.LevelError, fmt.Sprintf("Could not update %s: %s", line.Product.Name, display)))
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
		m.publish()
	}
	return nil
}

// RemoveLine drops productID whatever its quantity, optimistically, and
// offers an undo.
func (m *Manager) RemoveLine(ctx context.Context, productID int64) error {
	release, err := m.begin(ctx, "change your cart")
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	line, ok := m.findLocked(productID)
	m.mu.Unlock()
	if !ok {
		m.notifier.Notify(notify.New(notify.LevelError, xerrors.ErrLineNotFound.Error()))
		return xerrors.ErrLineNotFound
	}

	return m.removeOptimistic(ctx, line, m.remote.RemoveItem)
}

// removeOptimistic hides line right away, asks the backend to remove it and
// either confirms with an undo offer or rolls back.
func (m *Manager) removeOptimistic(
	ctx context.Context,
	line cart.Line,
	call func(context.Context, int64) (*cart.Cart, error),
) error {
	m.mu.Lock()
	before := m.lines
	m.lines = m.withoutLocked(line.ProductID)
	epoch := m.startLocked()
	m.mu.Unlock()
	m.publish()

	remote, err := call(ctx, line.ProductID)
	if err != nil {
		display := m.failure("remove "+line.Product.Name, err)
		if m.rollback(ctx, epoch, before, display) {
			m.notifier.Notify(notify.New(notify.LevelError, fmt.Sprintf("Could not remove %s: %s", line.Product.Name, display)))
			m.publish()
		}
		return display
	}

	m.mu.Lock()
	applied := m.finishLocked(epoch, cart.PhaseReady)
	var undoNotice, superseded string
	if applied {
		m.lines = Normalize(remote)
		m.errMsg = ""
		undoNotice, superseded = m.armUndoLocked(line)
	}
	m.mu.Unlock()

	if !applied {
		return nil
	}
	if superseded != "" {
		m.notifier.Dismiss(superseded)
	}
	m.notifier.Notify(notify.Follow(undoNotice, notify.LevelSuccess, fmt.Sprintf("%s removed from your cart", line.Product.Name)).WithUndo("Undo"))
	m.publish()
	return nil
}

// rollback recovers from a failed optimistic change: the server's cart if it
// can still be fetched, else the cart as it was before. Reports whether the
// result was applied.
func (m *Manager) rollback(ctx context.Context, epoch uint64, before []cart.Line, cause error) bool {
	lines := before
	if remote, err := m.remote.GetCart(ctx); err == nil {
		lines = Normalize(remote)
	} else {
		m.logger.Warn("cart re-fetch after failed change failed, restoring previous cart", zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.finishLocked(epoch, cart.PhaseReverted) {
		return false
	}
	m.lines = lines
	m.errMsg = cause.Error()
	return true
}

// ========== Clear ==========

// Clear empties the cart on the server. Nothing changes locally until the
// server confirms.
func (m *Manager) Clear(ctx context.Context) error {
	release, err := m.begin(ctx, "change your cart")
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	epoch := m.startLocked()
	m.mu.Unlock()
	m.publish()

	loading := notify.New(notify.LevelLoading, "Emptying your cart...")
	m.notifier.Notify(loading)

	_, err = m.remote.ClearCart(ctx)

	m.mu.Lock()
	if err != nil {
		display := m.failure("clear the cart", err)
		applied := m.finishLocked(epoch, cart.PhaseReady)
		if applied {
			m.errMsg = display.Error()
		}
		m.mu.Unlock()

		if applied {
			m.notifier.Notify(notify.Follow(loading.ID, notify.LevelError, "Could not empty your cart: "+display.Error()))
			m.publish()
		}
		return display
	}

	applied := m.finishLocked(epoch, cart.PhaseReady)
	var dismissed string
	if applied {
		m.lines = nil
		m.errMsg = ""
		dismissed = m.cancelUndoLocked()
	}
	m.mu.Unlock()

	if applied {
		if dismissed != "" {
			m.notifier.Dismiss(dismissed)
		}
		m.notifier.Notify(notify.Follow(loading.ID, notify.LevelSuccess, "Your cart is empty"))
		m.publish()
	}
	return nil
}

// ========== Helpers ==========

// notifyOutcome turns the loading notice id into its outcome, or posts a fresh
// notice when there was none.
func (m *Manager) notifyOutcome(id string, level notify.Level, message string) {
	if id == "" {
		m.notifier.Notify(notify.New(level, message))
		return
	}
	m.notifier.Notify(notify.Follow(id, level, message))
}

// failure logs the raw cause and returns the display-safe error for it.
func (m *Manager) failure(op string, err error) error {
	m.logger.Warn("cart operation failed", zap.String("op", op), zap.Error(err))

	if errors.Is(err, xerrors.ErrUnauthenticated) {
		return xerrors.ErrUnauthenticated
	}
	switch api.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return xerrors.ErrUnauthenticated
	}
	return xerrors.ErrRemote
}
