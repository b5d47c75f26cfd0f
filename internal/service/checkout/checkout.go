// internal/service/checkout/checkout.go
package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"storefront-agent/internal/domain/cart"
	"storefront-agent/internal/domain/order"
	"storefront-agent/internal/notify"
	xerrors "storefront-agent/internal/pkg/errors"
	cartsvc "storefront-agent/internal/service/cart"

	"go.uber.org/zap"
)

const (
	DefaultProvince = "Buenos Aires"
	PickupAddress   = "Store pickup"
)

type Orders interface {
	CreateOrder(ctx context.Context, req order.CreateRequest) (*order.Order, error)
}

// Cart is the slice of the cart manager checkout reads and empties.
type Cart interface {
	Snapshot() cartsvc.Snapshot
	Clear(ctx context.Context) error
}

type Session interface {
	IsAuthenticated() bool
}

type Navigator interface {
	Navigate(path string)
}

// Summary is what the checkout page shows before the order is placed.
type Summary struct {
	Lines      []cart.Line `json:"lines"`
	TotalItems int         `json:"total_items"`
	Subtotal   float64     `json:"subtotal"`
}

type Service struct {
	orders    Orders
	cart      Cart
	session   Session
	notifier  notify.Notifier
	navigator Navigator
	logger    *zap.Logger
}

func NewService(
	orders Orders,
	cart Cart,
	session Session,
	notifier notify.Notifier,
	navigator Navigator,
	logger *zap.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		orders:    orders,
		cart:      cart,
		session:   session,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

func (s *Service) Summary() Summary {
	snap := s.cart.Snapshot()
	return Summary{
		Lines:      snap.Lines,
		TotalItems: snap.TotalItems(),
		Subtotal:   snap.Subtotal(),
	}
}

// PlaceOrder turns the current cart into an order, then empties the cart and
// sends the UI to the order page.
func (s *Service) PlaceOrder(ctx context.Context, req order.CheckoutRequest) (*order.Order, error) {
	if !s.session.IsAuthenticated() {
		s.notifier.Notify(notify.New(notify.LevelError, "Log in to place an order"))
		return nil, xerrors.ErrUnauthenticated
	}
	if len(s.cart.Snapshot().Lines) == 0 {
		s.notifier.Notify(notify.New(notify.LevelError, xerrors.ErrEmptyCart.Error()))
		return nil, xerrors.ErrEmptyCart
	}

	address, err := ShippingAddress(req)
	if err != nil {
		s.notifier.Notify(notify.New(notify.LevelError, err.Error()))
		return nil, err
	}

	loading := notify.New(notify.LevelLoading, "Placing your order...")
	s.notifier.Notify(loading)

	created, err := s.orders.CreateOrder(ctx, order.CreateRequest{
		DeliveryMethod:  req.DeliveryMethod,
		ShippingAddress: address,
	})
	if err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		s.notifier.Notify(notify.Follow(loading.ID, notify.LevelError, "Could not place your order: "+xerrors.ErrRemote.Error()))
		return nil, xerrors.ErrRemote
	}

	if err := s.cart.Clear(ctx); err != nil {
		// the order exists; the cart manager already told the shopper
		s.logger.Warn("order placed but cart not cleared", zap.Int64("order_id", created.ID), zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", created.ID),
		zap.String("delivery_method", string(req.DeliveryMethod)),
		zap.Float64("total", created.Total),
	)
	s.notifier.Notify(notify.Follow(loading.ID, notify.LevelSuccess, fmt.Sprintf("Order #%d created", created.ID)))

	if s.navigator != nil {
		s.navigator.Navigate("/checkout/" + strconv.FormatInt(created.ID, 10))
	}
	return created, nil
}

// ShippingAddress validates req and renders the single address string the
// backend stores.
func ShippingAddress(req order.CheckoutRequest) (string, error) {
	switch req.DeliveryMethod {
	case order.DeliveryPickup:
		return PickupAddress, nil
	case order.DeliveryShipping:
	default:
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, "unknown delivery method")
	}

	if req.Address == nil {
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, "shipping needs an address")
	}
	a := *req.Address
	street := strings.TrimSpace(a.Street)
	number := strings.TrimSpace(a.Number)
	city := strings.TrimSpace(a.City)
	zip := strings.TrimSpace(a.ZipCode)
	if street == "" || number == "" || city == "" || zip == "" {
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, "street, number, city and zip code are required for shipping")
	}

	province := strings.TrimSpace(a.Province)
	if province == "" {
		province = DefaultProvince
	}

	var b strings.Builder
	b.WriteString(street + " " + number)
	if floor := strings.TrimSpace(a.Floor); floor != "" {
		b.WriteString(" (Floor/Apt: " + floor + ")")
	}
	fmt.Fprintf(&b, ", %s, %s - ZIP: %s", city, province, zip)
	return b.String(), nil
}
