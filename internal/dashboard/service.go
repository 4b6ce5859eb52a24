package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"aviorie-web/internal/api"
	"aviorie-web/internal/logger"
	"aviorie-web/internal/order"
	"aviorie-web/internal/product"
	"aviorie-web/internal/role"
	"aviorie-web/internal/session"

	"go.uber.org/zap"
)

// ErrUnauthorized means the backend refused the session token. Callers clear
// the session and send the visitor to log in again.
var ErrUnauthorized = errors.New("session token rejected by backend")

var ErrUnknownRole = errors.New("session role has no dashboard")

const (
	noticeStatusUpdated = "Order status updated"
	noticeStatusFailed  = "Failed to update status"
	noticeProductAdded  = "Product added successfully"
	noticeProductFailed = "Failed to add product"
	noticeOrderPlaced   = "Order placed successfully"
	noticeOrderFailed   = "Failed to place order"
)

// Notice is the one-line outcome of a dashboard action.
type Notice struct {
	Text   string
	Failed bool
}

type Service struct {
	fetcher   *Fetcher
	orders    order.Service
	products  product.Service
	snapshots *Snapshots
}

func NewService(fetcher *Fetcher, orders order.Service, products product.Service) *Service {
	return &Service{
		fetcher:   fetcher,
		orders:    orders,
		products:  products,
		snapshots: NewSnapshots(),
	}
}

// Page loads the dashboard for the session's role. It returns ErrUnauthorized
// when any fetch was refused with 401.
func (s *Service) Page(ctx context.Context, visitor string, sess *session.Session) (*Page, error) {
	r, ok := sess.Role()
	if !ok {
		return nil, ErrUnknownRole
	}

	owner := SnapshotOwner(sess.User.ID, r.Kind())
	data := s.snapshots.Get(visitor, owner)
	failures := s.fetcher.Fetch(ctx, sess.Token, &data, ResourcesFor(r)...)
	for _, f := range failures {
		if api.IsUnauthorized(f.Err) {
			s.snapshots.Forget(visitor)
			return nil, ErrUnauthorized
		}
	}
	s.snapshots.Put(visitor, owner, data)

	return role.Match[*Page](r, builder{user: sess.User, data: data, failures: failures}), nil
}

// Forget drops cached dashboard data for visitor.
func (s *Service) Forget(visitor string) {
	s.snapshots.Forget(visitor)
}

// UpdateDeliveryStatus moves an order along the delivery edges. from is the
// status the partner saw; transitions outside the edges are refused without
// calling the backend.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, sess *session.Session, orderID string, from, to order.Status) (Notice, error) {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	if err := order.CheckDeliveryTransition(from, to); err != nil {
		log.Info("delivery transition refused", zap.Error(err))
		return Notice{Text: noticeStatusFailed, Failed: true}, nil
	}

	if err := s.orders.UpdateStatus(ctx, sess.Token, orderID, to); err != nil {
		if api.IsUnauthorized(err) {
			return Notice{}, ErrUnauthorized
		}
		log.Warn("status update failed", zap.Error(err))
		return Notice{Text: noticeStatusFailed, Failed: true}, nil
	}

	log.Info("order status updated", zap.String("status", string(to)))
	return Notice{Text: noticeStatusUpdated}, nil
}

// CreateProduct adds a product from the admin form.
func (s *Service) CreateProduct(ctx context.Context, sess *session.Session, form product.CreateForm) (Notice, error) {
	log := logger.FromCtx(ctx)

	req, err := form.Request()
	if err != nil {
		return Notice{Text: err.Error(), Failed: true}, nil
	}

	created, err := s.products.Create(ctx, sess.Token, req)
	if err != nil {
		if api.IsUnauthorized(err) {
			return Notice{}, ErrUnauthorized
		}
		log.Warn("product create failed", zap.Error(err))
		return Notice{Text: noticeProductFailed, Failed: true}, nil
	}

	if created != nil {
		log.Info("product created", zap.String("product_id", created.ID))
	}
	return Notice{Text: noticeProductAdded}, nil
}

// PlaceForm is a customer's single-product order.
type PlaceForm struct {
	ProductID       string `form:"product_id"`
	Quantity        string `form:"quantity"`
	DeliveryAddress string `form:"delivery_address"`
}

func (f PlaceForm) request(defaultAddress string) (order.PlaceRequest, error) {
	id := strings.TrimSpace(f.ProductID)
	if id == "" {
		return order.PlaceRequest{}, errors.New("choose a product")
	}

	qty := 1
	if q := strings.TrimSpace(f.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			return order.PlaceRequest{}, fmt.Errorf("quantity %q must be a positive whole number", q)
		}
		qty = n
	}

	addr := strings.TrimSpace(f.DeliveryAddress)
	if addr == "" {
		addr = defaultAddress
	}
	if addr == "" {
		return order.PlaceRequest{}, errors.New("enter a delivery address")
	}

	return order.PlaceRequest{
		Items:           []order.PlaceItem{{ProductID: id, Quantity: qty}},
		DeliveryAddress: addr,
		PaymentMethod:   order.PaymentCashOnDelivery,
	}, nil
}

// PlaceOrder submits a cash-on-delivery order. The delivery address defaults
// to the customer's own.
func (s *Service) PlaceOrder(ctx context.Context, sess *session.Session, form PlaceForm) (Notice, error) {
	log := logger.FromCtx(ctx)

	req, err := form.request(sess.User.Address)
	if err != nil {
		return Notice{Text: err.Error(), Failed: true}, nil
	}

	placed, err := s.orders.Place(ctx, sess.Token, req)
	if err != nil {
		if api.IsUnauthorized(err) {
			return Notice{}, ErrUnauthorized
		}
		log.Warn("order placement failed", zap.Error(err))
		return Notice{Text: noticeOrderFailed, Failed: true}, nil
	}

	if placed != nil {
		log.Info("order placed", zap.String("order_id", placed.ID))
	}
	return Notice{Text: noticeOrderPlaced}, nil
}
