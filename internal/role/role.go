// Package role models the four Aviorie account roles as a closed set.
//
// A Role is one of Customer, DeliveryPartner, Manager or Admin. Code that has
// to behave differently per role goes through Match with a Visitor, which must
// implement a method for every variant, so adding a role breaks the build
// everywhere a decision is missing instead of falling through a string switch.
package role

type Kind string

const (
	KindCustomer        Kind = "customer"
	KindDeliveryPartner Kind = "delivery_partner"
	KindManager         Kind = "manager"
	KindAdmin           Kind = "admin"
)

// Landing is where sessions without a known role are sent.
const Landing = "/"

type Role interface {
	Kind() Kind
	// Home is the dashboard path for the role.
	Home() string
	sealed()
}

type Customer struct{}

type DeliveryPartner struct{}

type Manager struct {
	AreaID string
}

type Admin struct{}

func (Customer) Kind() Kind        { return KindCustomer }
func (DeliveryPartner) Kind() Kind { return KindDeliveryPartner }
func (Manager) Kind() Kind         { return KindManager }
func (Admin) Kind() Kind           { return KindAdmin }

func (Customer) Home() string        { return "/customer" }
func (DeliveryPartner) Home() string { return "/delivery-partner" }
func (Manager) Home() string         { return "/manager" }
func (Admin) Home() string           { return "/admin" }

func (Customer) sealed()        {}
func (DeliveryPartner) sealed() {}
func (Manager) sealed()         {}
func (Admin) sealed()           {}

// Parse maps a backend role string to its variant. areaID is only kept for
// managers.
func Parse(name string, areaID string) (Role, bool) {
	switch Kind(name) {
	case KindCustomer:
		return Customer{}, true
	case KindDeliveryPartner:
		return DeliveryPartner{}, true
	case KindManager:
		return Manager{AreaID: areaID}, true
	case KindAdmin:
		return Admin{}, true
	}
	return nil, false
}

// HomeFor returns the dashboard path for a role string, or Landing when the
// role is not recognised.
func HomeFor(name string) string {
	r, ok := Parse(name, "")
	if !ok {
		return Landing
	}
	return r.Home()
}

// Registrable lists the roles a visitor may pick at signup. Admin accounts
// are provisioned by the backend only.
func Registrable() []Kind {
	return []Kind{KindCustomer, KindDeliveryPartner, KindManager}
}

func IsRegistrable(k Kind) bool {
	for _, r := range Registrable() {
		if r == k {
			return true
		}
	}
	return false
}

// Label is the human readable name of a role kind.
func (k Kind) Label() string {
	switch k {
	case KindCustomer:
		return "Customer"
	case KindDeliveryPartner:
		return "Delivery Partner"
	case KindManager:
		return "Manager"
	case KindAdmin:
		return "Administrator"
	}
	return string(k)
}
