// Package dashboard loads and assembles the role-scoped dashboards.
package dashboard

import (
	"context"
	"sort"
	"sync"

	"aviorie-web/internal/logger"
	"aviorie-web/internal/order"
	"aviorie-web/internal/product"
	"aviorie-web/internal/role"
	"aviorie-web/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resource is one backend collection a dashboard can show.
type Resource int

const (
	Orders Resource = iota
	Users
	AllUsers
	Products
)

func (r Resource) String() string {
	switch r {
	case Orders:
		return "orders"
	case Users:
		return "users"
	case AllUsers:
		return "all_users"
	case Products:
		return "products"
	}
	return "unknown"
}

// FailureNotice is the message shown on a k dashboard when r could not be
// loaded. Partner and manager dashboards word the orders notice differently.
func (r Resource) FailureNotice(k role.Kind) string {
	switch r {
	case Orders:
		if k == role.KindDeliveryPartner || k == role.KindManager {
			return "Failed to load orders"
		}
		return "Failed to fetch orders"
	case Users, AllUsers:
		return "Failed to fetch users"
	case Products:
		return "Failed to fetch products"
	}
	return "Failed to load data"
}

// Data has one slot per resource.
type Data struct {
	Orders   []order.Order
	Users    []user.User
	AllUsers []user.User
	Products []product.Product
}

type Failure struct {
	Resource Resource
	Err      error
}

// Fetcher loads any combination of resources with one token.
type Fetcher struct {
	orders   order.Service
	users    user.Service
	products product.Service
}

func NewFetcher(orders order.Service, users user.Service, products product.Service) *Fetcher {
	return &Fetcher{orders: orders, users: users, products: products}
}

// Fetch loads resources concurrently into data. Each fetch writes only its
// own slot, and a failed fetch leaves its slot as it was.
func (f *Fetcher) Fetch(ctx context.Context, token string, data *Data, resources ...Resource) []Failure {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []Failure
	)
	fail := func(r Resource, err error) {
		mu.Lock()
		failures = append(failures, Failure{Resource: r, Err: err})
		mu.Unlock()
		logger.FromCtx(ctx).Warn("dashboard fetch failed",
			zap.Stringer("resource", r),
			zap.Error(err),
		)
	}

	for _, r := range dedupe(resources) {
		r := r
		switch r {
		case Orders:
			g.Go(func() error {
				orders, err := f.orders.List(ctx, token)
				if err != nil {
					fail(r, err)
					return nil
				}
				data.Orders = orders
				return nil
			})
		case Users:
			g.Go(func() error {
				users, err := f.users.List(ctx, token)
				if err != nil {
					fail(r, err)
					return nil
				}
				data.Users = users
				return nil
			})
		case AllUsers:
			g.Go(func() error {
				users, err := f.users.ListAll(ctx, token)
				if err != nil {
					fail(r, err)
					return nil
				}
				data.AllUsers = users
				return nil
			})
		case Products:
			g.Go(func() error {
				products, err := f.products.List(ctx, token)
				if err != nil {
					fail(r, err)
					return nil
				}
				data.Products = products
				return nil
			})
		}
	}
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool { return failures[i].Resource < failures[j].Resource })
	return failures
}

func dedupe(resources []Resource) []Resource {
	seen := make(map[Resource]bool, len(resources))
	out := resources[:0:0]
	for _, r := range resources {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Snapshots keeps the last data loaded for each visitor, so a failed fetch
// can still show what was there before. An entry belongs to the account that
// filled it; a different owner on the same visitor starts empty.
type Snapshots struct {
	mu   sync.Mutex
	data map[string]snapshot
}

type snapshot struct {
	owner string
	data  Data
}

func NewSnapshots() *Snapshots {
	return &Snapshots{data: make(map[string]snapshot)}
}

// SnapshotOwner identifies the account a snapshot was loaded for.
func SnapshotOwner(userID string, kind role.Kind) string {
	return userID + "|" + string(kind)
}

func (s *Snapshots) Get(visitor, owner string) Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[visitor]
	if !ok || snap.owner != owner {
		return Data{}
	}
	return snap.data
}

func (s *Snapshots) Put(visitor, owner string, d Data) {
	s.mu.Lock()
	s.data[visitor] = snapshot{owner: owner, data: d}
	s.mu.Unlock()
}

func (s *Snapshots) Forget(visitor string) {
	s.mu.Lock()
	delete(s.data, visitor)
	s.mu.Unlock()
}
