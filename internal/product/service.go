package product

import (
	"context"
	"net/http"

	"aviorie-web/internal/api"
	"aviorie-web/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, token string) ([]Product, error)
	Create(ctx context.Context, token string, req CreateRequest) (*Product, error)
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) List(ctx context.Context, token string) ([]Product, error) {
	var products []Product
	err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/products", Token: token}, &products)
	return products, err
}

func (s *service) Create(ctx context.Context, token string, req CreateRequest) (*Product, error) {
	var p Product
	if err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/products",
		Token:  token,
		Body:   req,
	}, &p); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.String("product_id", p.ID),
		zap.String("name", req.Name),
	)
	return &p, nil
}
