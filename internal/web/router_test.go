package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"aviorie-web/internal/api"
	"aviorie-web/internal/auth"
	"aviorie-web/internal/authflow"
	"aviorie-web/internal/dashboard"
	"aviorie-web/internal/metrics"
	"aviorie-web/internal/middleware"
	"aviorie-web/internal/order"
	"aviorie-web/internal/product"
	"aviorie-web/internal/session"
	"aviorie-web/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type app struct {
	server   *httptest.Server
	client   *http.Client
	sessions *session.MemoryStore
}

func newApp(t *testing.T, backend http.Handler) *app {
	t.Helper()

	be := httptest.NewServer(backend)
	t.Cleanup(be.Close)

	m := metrics.New()
	client := api.New(be.URL+"/api", api.WithTransport(m.RoundTripper))
	users := user.NewService(client)
	orders := order.NewService(client)
	products := product.NewService(client)

	sessions := session.NewMemoryStore()
	flow := authflow.New(users, sessions, authflow.WithRecorder(m))
	dash := dashboard.NewService(dashboard.NewFetcher(orders, users, products), orders, products)

	render, err := NewRenderer()
	require.NoError(t, err)
	visitors, err := auth.NewVisitors("web-test-secret", false)
	require.NoError(t, err)

	h := NewHandler(flow, dash, sessions, render, false)
	srv := httptest.NewServer(NewRouter(h, visitors, sessions, middleware.NewLimiter(), m))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &app{
		server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		sessions: sessions,
	}
}

func (a *app) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *app) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loginAs(roleName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "t1",
			"user":  map[string]any{"id": "1", "role": roleName, "full_name": "Test User", "address": "1 Main St"},
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t, http.NewServeMux())

	resp, body := a.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
	assert.Empty(t, resp.Cookies())

	resp, body = a.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "aviorie_web_http_requests_total")
}

func TestLanding(t *testing.T) {
	a := newApp(t, http.NewServeMux())

	resp, body := a.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Get Started")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var visitor *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.VisitorCookie {
			visitor = c
		}
	}
	require.NotNil(t, visitor)
	assert.True(t, visitor.HttpOnly)
}

func TestGuardedRoutesWithoutSession(t *testing.T) {
	a := newApp(t, http.NewServeMux())

	for _, path := range []string{"/customer", "/delivery-partner", "/manager", "/admin"} {
		resp, _ := a.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/auth", resp.Header.Get("Location"), path)
	}
}

func TestAdminLoginAndDashboard(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/login", loginAs("admin"))
	backend.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "order-0001", "status": "pending", "total_amount": 0.1},
			{"id": "order-0002", "status": "delivered", "total_amount": 100.2},
		})
	})
	backend.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "1", "full_name": "Ann"}})
	})
	backend.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "db down"})
	})
	a := newApp(t, backend)

	resp, _ := a.post(t, "/auth/login", url.Values{"login": {"root@aviorie.test"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	resp, body := a.get(t, "/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Login successful!")
	assert.Contains(t, body, `data-testid="total-orders">2<`)
	assert.Contains(t, body, "100.30")
	assert.Contains(t, body, "Failed to fetch products")
	assert.Contains(t, body, "Ann")

	resp, _ = a.get(t, "/customer")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = a.post(t, "/auth/logout", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp, _ = a.get(t, "/admin")
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}

func TestSecondLoginDoesNotSeePreviousAccountOrders(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["login"] == "root@aviorie.test" {
			writeJSON(w, http.StatusOK, map[string]any{
				"token": "t-admin",
				"user":  map[string]any{"id": "1", "role": "admin", "full_name": "Root"},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "t-customer",
			"user":  map[string]any{"id": "2", "role": "customer", "full_name": "Cara", "address": "2 Side St"},
		})
	})
	backend.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer t-admin" {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "admin-visible-order", "status": "pending"}})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "db down"})
	})
	backend.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})
	backend.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})
	a := newApp(t, backend)

	a.post(t, "/auth/login", url.Values{"login": {"root@aviorie.test"}, "password": {"pw"}})
	_, body := a.get(t, "/admin")
	require.Contains(t, body, "admin-visible-order")

	resp, _ := a.post(t, "/auth/login", url.Values{"login": {"cara@aviorie.test"}, "password": {"pw"}})
	require.Equal(t, "/customer", resp.Header.Get("Location"))

	resp, body = a.get(t, "/customer")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Failed to fetch orders")
	assert.Contains(t, body, "No orders yet")
	assert.NotContains(t, body, "admin-visible-order")
}

func TestLoginRequiringApproval(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"requires_approval": true, "message": "pending"})
	})
	a := newApp(t, backend)

	resp, _ := a.post(t, "/auth/login", url.Values{"login": {"dp@b.com"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/waiting-approval", resp.Header.Get("Location"))

	resp, body := a.get(t, "/waiting-approval")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Waiting for Approval")

	resp, _ = a.get(t, "/delivery-partner")
	assert.Equal(t, "/auth", resp.Header.Get("Location"))

	resp, _ = a.post(t, "/waiting-approval", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLoginFailureRendersDetail(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid credentials"})
	})
	a := newApp(t, backend)

	resp, body := a.post(t, "/auth/login", url.Values{"login": {"x@y.z"}, "password": {"secret-pw"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="x@y.z"`)
	assert.NotContains(t, body, "secret-pw")
}

func TestSignupAndOTP(t *testing.T) {
	var (
		mu       sync.Mutex
		register map[string]any
		verify   url.Values
	)
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&register))
		writeJSON(w, http.StatusOK, map[string]any{"requires_otp": true, "user_id": "u1"})
	})
	backend.HandleFunc("/api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		verify = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{"message": "verified"})
	})
	a := newApp(t, backend)

	resp, body := a.get(t, "/auth?mode=signup")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Create an account")
	assert.NotContains(t, body, `value="admin"`)

	resp, body = a.post(t, "/auth/signup", url.Values{
		"email": {"a@b.com"}, "phone": {"555"}, "password": {"pw"},
		"full_name": {"A B"}, "role": {"customer"}, "address": {"1 Main St"},
		"area_id": {"north"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Verify your account")

	mu.Lock()
	_, hasArea := register["area_id"]
	assert.False(t, hasArea)
	assert.Equal(t, "customer", register["role"])
	mu.Unlock()

	_, body = a.get(t, "/auth")
	assert.Contains(t, body, "Verify your account")

	resp, body = a.post(t, "/auth/verify-otp", url.Values{"otp": {"123456"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Account created successfully! Please login.")
	assert.Contains(t, body, "Welcome back")

	mu.Lock()
	assert.Equal(t, "u1", verify.Get("user_id"))
	assert.Equal(t, "123456", verify.Get("otp"))
	mu.Unlock()

	resp, _ = a.get(t, "/customer")
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}

func TestDeliveryPartnerStatusUpdate(t *testing.T) {
	var (
		mu      sync.Mutex
		updates []string
	)
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/login", loginAs("delivery_partner"))
	backend.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "o1", "status": "confirmed", "total_amount": 10},
			{"id": "o2", "status": "pending", "total_amount": 5},
		})
	})
	backend.HandleFunc("/api/orders/o1/status", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		updates = append(updates, r.Method+" "+r.URL.Query().Get("status"))
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})
	a := newApp(t, backend)

	a.post(t, "/auth/login", url.Values{"login": {"dp"}, "password": {"pw"}})

	_, body := a.get(t, "/delivery-partner")
	assert.Contains(t, body, "Mark Out for Delivery")
	assert.NotContains(t, body, "Mark as Delivered")
	assert.Equal(t, 1, strings.Count(body, "<form method=\"post\" action=\"/delivery-partner/orders/"))

	resp, _ := a.post(t, "/delivery-partner/orders/o1/status", url.Values{"from": {"confirmed"}, "status": {"out_for_delivery"}})
	assert.Equal(t, "/delivery-partner", resp.Header.Get("Location"))
	_, body = a.get(t, "/delivery-partner")
	assert.Contains(t, body, "Order status updated")

	resp, _ = a.post(t, "/delivery-partner/orders/o1/status", url.Values{"from": {"pending"}, "status": {"delivered"}})
	assert.Equal(t, "/delivery-partner", resp.Header.Get("Location"))
	_, body = a.get(t, "/delivery-partner")
	assert.Contains(t, body, "Failed to update status")

	mu.Lock()
	assert.Equal(t, []string{"PUT out_for_delivery"}, updates)
	mu.Unlock()
}

func TestExpiredTokenClearsSession(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/auth/login", loginAs("manager"))
	backend.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
	})
	backend.HandleFunc("/api/admin/all-users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})
	a := newApp(t, backend)

	a.post(t, "/auth/login", url.Values{"login": {"m"}, "password": {"pw"}})

	resp, _ := a.get(t, "/manager")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth", resp.Header.Get("Location"))

	resp, body := a.get(t, "/auth")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your session has expired")

	resp, _ = a.get(t, "/manager")
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}
