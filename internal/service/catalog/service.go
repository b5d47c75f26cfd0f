// internal/service/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront-agent/internal/api"
	"storefront-agent/internal/domain/auth"
	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/domain/order"
	xerrors "storefront-agent/internal/pkg/errors"

	"go.uber.org/zap"
)

// Remote is the part of the backend the catalog pages and the back office use.
type Remote interface {
	Products(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	Profile(ctx context.Context) (*auth.Profile, error)
	MyOrders(ctx context.Context) ([]order.Order, error)
	Order(ctx context.Context, id int64) (*order.Order, error)

	AllOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error)
	CreateProduct(ctx context.Context, product catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, category catalog.Category) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type Session interface {
	IsAuthenticated() bool
	Identity() *auth.Identity
}

type Service struct {
	remote  Remote
	session Session
	logger  *zap.Logger
}

func NewService(remote Remote, session Session, logger *zap.Logger) *Service {
	return &Service{remote: remote, session: session, logger: logger}
}

// ========== Browse ==========

func (s *Service) Products(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	switch filter.SortOrder {
	case "", catalog.SortDefault, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortAlphaAsc, catalog.SortAlphaDesc:
	default:
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown sort order")
	}
	filter.Name = strings.TrimSpace(filter.Name)

	products, err := s.remote.Products(ctx, filter)
	if err != nil {
		return nil, s.failure("list products", err)
	}
	return products, nil
}

func (s *Service) Categories(ctx context.Context) ([]catalog.Category, error) {
	categories, err := s.remote.Categories(ctx)
	if err != nil {
		return nil, s.failure("list categories", err)
	}
	return categories, nil
}

// ========== Account ==========

func (s *Service) Profile(ctx context.Context) (*auth.Profile, error) {
	if !s.session.IsAuthenticated() {
		return nil, xerrors.ErrUnauthenticated
	}
	profile, err := s.remote.Profile(ctx)
	if err != nil {
		return nil, s.failure("load profile", err)
	}
	return profile, nil
}

func (s *Service) MyOrders(ctx context.Context) ([]order.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, xerrors.ErrUnauthenticated
	}
	orders, err := s.remote.MyOrders(ctx)
	if err != nil {
		return nil, s.failure("list my orders", err)
	}
	return orders, nil
}

func (s *Service) Order(ctx context.Context, id int64) (*order.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, xerrors.ErrUnauthenticated
	}
	if id <= 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "order id must be positive")
	}
	o, err := s.remote.Order(ctx, id)
	if err != nil {
		return nil, s.failure("load order", err)
	}
	return o, nil
}

// ========== Back office ==========

// requireAdmin hides the back office from shoppers. The token is not verified
// here, the backend re-checks every admin call.
func (s *Service) requireAdmin() error {
	if !s.session.IsAuthenticated() {
		return xerrors.ErrUnauthenticated
	}
	if !s.session.Identity().IsAdmin() {
		return xerrors.ErrForbidden
	}
	return nil
}

func (s *Service) AllOrders(ctx context.Context) ([]order.Order, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	orders, err := s.remote.AllOrders(ctx)
	if err != nil {
		return nil, s.failure("list all orders", err)
	}
	return orders, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	status = order.Status(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown order status")
	}

	o, err := s.remote.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, s.failure("update order status", err)
	}
	s.logger.Info("order status updated", zap.Int64("order_id", id), zap.String("status", string(status)))
	return o, nil
}

func (s *Service) CreateProduct(ctx context.Context, product catalog.Product) (*catalog.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" || product.Price <= 0 || product.Stock < 0 || product.CategoryID <= 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "product needs a name, a positive price, a category and a stock of zero or more")
	}

	created, err := s.remote.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.failure("create product", err)
	}
	s.logger.Info("product created", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		return s.failure("delete product", err)
	}
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, category catalog.Category) (*catalog.Category, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "category name is required")
	}

	created, err := s.remote.CreateCategory(ctx, category)
	if err != nil {
		return nil, s.failure("create category", err)
	}
	return created, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.remote.DeleteCategory(ctx, id); err != nil {
		return s.failure("delete category", err)
	}
	return nil
}

// failure logs the raw cause and maps it onto the display-safe taxonomy.
func (s *Service) failure(op string, err error) error {
	s.logger.Warn("catalog call failed", zap.String("op", op), zap.Error(err))

	if errors.Is(err, xerrors.ErrUnauthenticated) {
		return xerrors.ErrUnauthenticated
	}
	switch api.StatusCode(err) {
	case http.StatusUnauthorized:
		return xerrors.ErrUnauthenticated
	case http.StatusForbidden:
		return xerrors.ErrForbidden
	case http.StatusNotFound:
		return xerrors.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict:
		return xerrors.ErrInvalidInput
	}
	return xerrors.ErrRemote
}
