package dashboard

import (
	"aviorie-web/internal/order"
	"aviorie-web/internal/product"
	"aviorie-web/internal/role"
	"aviorie-web/internal/user"

	"github.com/shopspring/decimal"
)

// Page is everything a dashboard template renders.
type Page struct {
	Kind     role.Kind
	Template string
	User     user.User
	Notices  []string

	Orders   []OrderRow
	Products []product.Product
	Users    []user.User
	Partners []user.User
	Stats    Stats

	AreaID         string
	DefaultAddress string
}

// OrderRow is an order plus the delivery action offered for it, if any.
type OrderRow struct {
	order.Order
	Action *order.DeliveryAction
}

type Stats struct {
	TotalOrders   int
	TotalRevenue  decimal.Decimal
	TotalUsers    int
	TotalProducts int
}

// Revenue formats TotalRevenue with two decimals.
func (s Stats) Revenue() string {
	return s.TotalRevenue.StringFixed(2)
}

func computeStats(d Data) Stats {
	revenue := decimal.Zero
	for _, o := range d.Orders {
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	return Stats{
		TotalOrders:   len(d.Orders),
		TotalRevenue:  revenue,
		TotalUsers:    len(d.Users),
		TotalProducts: len(d.Products),
	}
}

// needs lists the resources each role's dashboard shows.
type needs struct{}

func (needs) Customer(role.Customer) []Resource { return []Resource{Orders, Products} }
func (needs) DeliveryPartner(role.DeliveryPartner) []Resource {
	return []Resource{Orders}
}
func (needs) Manager(role.Manager) []Resource { return []Resource{Orders, AllUsers} }
func (needs) Admin(role.Admin) []Resource     { return []Resource{Orders, Users, Products} }

// ResourcesFor returns what the dashboard of r loads.
func ResourcesFor(r role.Role) []Resource {
	return role.Match[[]Resource](r, needs{})
}

// builder turns loaded data into the page for one role.
type builder struct {
	user     user.User
	data     Data
	failures []Failure
}

func (b builder) page(k role.Kind) *Page {
	return &Page{Kind: k, Template: string(k), User: b.user}
}

func (b builder) notices(k role.Kind, hidden ...Resource) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range b.failures {
		if contains(hidden, f.Resource) {
			continue
		}
		n := f.Resource.FailureNotice(k)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (b builder) Customer(r role.Customer) *Page {
	p := b.page(r.Kind())
	p.Orders = plainRows(b.data.Orders)
	p.Products = b.data.Products
	p.DefaultAddress = b.user.Address
	p.Notices = b.notices(p.Kind)
	return p
}

func (b builder) DeliveryPartner(r role.DeliveryPartner) *Page {
	p := b.page(r.Kind())
	p.Orders = make([]OrderRow, 0, len(b.data.Orders))
	for _, o := range b.data.Orders {
		row := OrderRow{Order: o}
		if a, ok := order.NextDeliveryAction(o.Status); ok {
			row.Action = &a
		}
		p.Orders = append(p.Orders, row)
	}
	p.Notices = b.notices(p.Kind)
	return p
}

// Manager hides partner-list failures; they are only logged.
func (b builder) Manager(r role.Manager) *Page {
	p := b.page(r.Kind())
	p.AreaID = r.AreaID
	p.Orders = plainRows(b.data.Orders)
	p.Partners = user.ApprovedPartners(b.data.AllUsers)
	p.Notices = b.notices(p.Kind, AllUsers)
	return p
}

func (b builder) Admin(r role.Admin) *Page {
	p := b.page(r.Kind())
	p.Orders = plainRows(b.data.Orders)
	p.Users = b.data.Users
	p.Products = b.data.Products
	p.Stats = computeStats(b.data)
	p.Notices = b.notices(p.Kind)
	return p
}

func plainRows(orders []order.Order) []OrderRow {
	rows := make([]OrderRow, len(orders))
	for i, o := range orders {
		rows[i] = OrderRow{Order: o}
	}
	return rows
}

func contains(rs []Resource, r Resource) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
