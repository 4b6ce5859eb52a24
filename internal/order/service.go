package order

import (
	"context"
	"net/http"
	"net/url"

	"aviorie-web/internal/api"
	"aviorie-web/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// List returns the orders visible to the token's role.
	List(ctx context.Context, token string) ([]Order, error)
	UpdateStatus(ctx context.Context, token, orderID string, status Status) error
	Place(ctx context.Context, token string, req PlaceRequest) (*Order, error)
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) List(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/orders", Token: token}, &orders)
	return orders, err
}

func (s *service) UpdateStatus(ctx context.Context, token, orderID string, status Status) error {
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/orders/" + url.PathEscape(orderID) + "/status",
		Query:  url.Values{"status": {string(status)}},
		Token:  token,
	}, nil)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *service) Place(ctx context.Context, token string, req PlaceRequest) (*Order, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = PaymentCashOnDelivery
	}

	var o Order
	if err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Token:  token,
		Body:   req,
	}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
