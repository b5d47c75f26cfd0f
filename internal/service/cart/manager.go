// internal/service/cart/manager.go
package cart

import (
	"context"
	"sync"
	"time"

	"storefront-agent/internal/domain/cart"
	"storefront-agent/internal/notify"
	xerrors "storefront-agent/internal/pkg/errors"

	"go.uber.org/zap"
)

const DefaultUndoWindow = 5 * time.Second

// Remote is the backend cart service. Every call returns the whole cart as the
// server now sees it.
type Remote interface {
	GetCart(ctx context.Context) (*cart.Cart, error)
	AddItem(ctx context.Context, productID int64, quantity int) (*cart.Cart, error)
	RemoveOne(ctx context.Context, productID int64) (*cart.Cart, error)
	RemoveItem(ctx context.Context, productID int64) (*cart.Cart, error)
	ClearCart(ctx context.Context) (*cart.Cart, error)
}

// Session answers whether anyone is logged in.
type Session interface {
	IsAuthenticated() bool
}

type Config struct {
	UndoWindow time.Duration
	// SerializeMutations lets one mutation reach the backend at a time. Off by
	// default: overlapping mutations race and the last response wins.
	SerializeMutations bool
}

// Snapshot is a read-only copy of the cart handed to callers and subscribers.
type Snapshot struct {
	Version     uint64            `json:"version"`
	Phase       cart.Phase        `json:"phase"`
	Lines       []cart.Line       `json:"lines"`
	Err         string            `json:"error,omitempty"`
	PendingUndo *cart.PendingUndo `json:"pending_undo,omitempty"`
}

// Quantity returns how many units of productID the snapshot holds.
func (s Snapshot) Quantity(productID int64) int {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (s Snapshot) TotalItems() int {
	total := 0
	for _, l := range s.Lines {
		total += l.Quantity
	}
	return total
}

func (s Snapshot) Subtotal() float64 {
	var total float64
	for _, l := range s.Lines {
		total += l.Subtotal()
	}
	return total
}

type pendingUndo struct {
	line     cart.Line
	noticeID string
	seq      uint64
	timer    *time.Timer
}

// Manager owns the local view of the shopper's cart. UI code reads it through
// Snapshot or Subscribe and changes it only through the operations.
type Manager struct {
	remote   Remote
	session  Session
	notifier notify.Notifier
	logger   *zap.Logger
	cfg      Config

	ctx    context.Context
	cancel context.CancelFunc
	flight chan struct{}

	mu         sync.Mutex
	epoch      uint64
	closed     bool
	version    uint64
	phase      cart.Phase
	lines      []cart.Line
	errMsg     string
	loadedOnce bool
	inflight   int
	pending    *pendingUndo
	undoSeq    uint64

	pubMu         sync.Mutex
	subs          map[int]func(Snapshot)
	nextSub       int
	lastDelivered uint64
}

func NewManager(
	remote Remote,
	session Session,
	notifier notify.Notifier,
	cfg Config,
	logger *zap.Logger,
) *Manager {
	if cfg.UndoWindow <= 0 {
		cfg.UndoWindow = DefaultUndoWindow
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		remote:   remote,
		session:  session,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		flight:   make(chan struct{}, 1),
		phase:    cart.PhaseUninitialized,
		subs:     make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current cart.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	lines := make([]cart.Line, len(m.lines))
	copy(lines, m.lines)

	snap := Snapshot{
		Version: m.version,
		Phase:   m.phase,
		Lines:   lines,
		Err:     m.errMsg,
	}
	if m.pending != nil {
		snap.PendingUndo = &cart.PendingUndo{Line: m.pending.line, NoticeID: m.pending.noticeID}
	}
	return snap
}

// Subscribe calls fn with every new snapshot, in version order. fn runs on the
// goroutine that changed the cart and must not call back into the manager.
func (m *Manager) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.pubMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.pubMu.Unlock()

	return func() {
		m.pubMu.Lock()
		delete(m.subs, id)
		m.pubMu.Unlock()
	}
}

func (m *Manager) publish() {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	snap := m.Snapshot()
	if snap.Version <= m.lastDelivered {
		return
	}
	m.lastDelivered = snap.Version

	for _, fn := range m.subs {
		fn(snap)
	}
}

// touchLocked marks a state change. Callers publish after unlocking.
func (m *Manager) touchLocked() {
	m.version++
}

// SessionChanged follows the session manager. Every replacement starts the
// cart over: the previous session's pending undo and in-flight results are
// dropped, then a new session reloads the cart in the background.
func (m *Manager) SessionChanged(authenticated bool) {
	if !authenticated {
		m.Reset()
		return
	}

	m.reset(cart.PhaseLoading)
	go func() {
		if err := m.Load(m.ctx); err != nil {
			m.logger.Debug("cart reload after login failed", zap.Error(err))
		}
	}()
}

// Reset empties the cart, drops any pending undo and discards the results of
// calls still in flight.
func (m *Manager) Reset() {
	m.reset(cart.PhaseEmpty)
}

func (m *Manager) reset(phase cart.Phase) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.epoch++
	m.inflight = 0
	m.lines = nil
	m.errMsg = ""
	m.loadedOnce = false
	m.phase = phase
	dismissed := m.cancelUndoLocked()
	m.touchLocked()
	m.mu.Unlock()

	if dismissed != "" {
		m.notifier.Dismiss(dismissed)
	}
	m.publish()
}

// Close stops timers and discards every later result. The manager is unusable
// afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.epoch++
	m.cancelUndoLocked()
	m.mu.Unlock()

	m.cancel()

	m.pubMu.Lock()
	m.subs = make(map[int]func(Snapshot))
	m.pubMu.Unlock()
}

// begin gates a mutation on the session and, when configured, on the single
// flight slot. The returned release must be called when the mutation is done.
func (m *Manager) begin(ctx context.Context, what string) (release func(), err error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, xerrors.ErrClosed
	}

	if !m.session.IsAuthenticated() {
		m.notifier.Notify(notify.New(notify.LevelError, "Log in to "+what))
		return nil, xerrors.ErrUnauthenticated
	}

	if !m.cfg.SerializeMutations {
		return func() {}, nil
	}

	select {
	case m.flight <- struct{}{}:
		return func() { <-m.flight }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.ctx.Done():
		return nil, xerrors.ErrClosed
	}
}

// startLocked moves the cart into Mutating and returns the epoch the caller must
// present when it applies its result.
func (m *Manager) startLocked() uint64 {
	m.inflight++
	m.phase = cart.PhaseMutating
	m.touchLocked()
	return m.epoch
}

// finishLocked reports whether a result started at epoch may still be applied.
// When it may, the in-flight count is settled and phase becomes final unless
// other mutations are still running.
func (m *Manager) finishLocked(epoch uint64, final cart.Phase) bool {
	if m.closed || epoch != m.epoch {
		return false
	}
	if m.inflight > 0 {
		m.inflight--
	}
	m.phase = final
	if m.inflight > 0 {
		m.phase = cart.PhaseMutating
	}
	m.touchLocked()
	return true
}

func (m *Manager) findLocked(productID int64) (cart.Line, bool) {
	for _, l := range m.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return cart.Line{}, false
}

func (m *Manager) withoutLocked(productID int64) []cart.Line {
	out := make([]cart.Line, 0, len(m.lines))
	for _, l := range m.lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}
