package user

import (
	"context"
	"net/http"
	"net/url"

	"aviorie-web/internal/api"
	"aviorie-web/internal/logger"

	"go.uber.org/zap"
)

// Service is the account side of the backend: registration, OTP, login and
// the admin user lists.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyOTP(ctx context.Context, userID, otp string) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	List(ctx context.Context, token string) ([]User, error)
	ListAll(ctx context.Context, token string) ([]User, error)
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   req,
	}, &resp)
	if err != nil {
		logger.FromCtx(ctx).Info("registration rejected", zap.String("role", req.Role), zap.Error(err))
		return nil, err
	}
	return &resp, nil
}

func (s *service) VerifyOTP(ctx context.Context, userID, otp string) error {
	return s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/verify-otp",
		Query:  url.Values{"user_id": {userID}, "otp": {otp}},
	}, nil)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   req,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) List(ctx context.Context, token string) ([]User, error) {
	var users []User
	err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/users", Token: token}, &users)
	return users, err
}

func (s *service) ListAll(ctx context.Context, token string) ([]User, error) {
	var users []User
	err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/admin/all-users", Token: token}, &users)
	return users, err
}

// ApprovedPartners keeps the approved delivery partners of users.
func ApprovedPartners(users []User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.IsApprovedPartner() {
			out = append(out, u)
		}
	}
	return out
}
