package role

// Visitor handles every role variant.
type Visitor[T any] interface {
	Customer(Customer) T
	DeliveryPartner(DeliveryPartner) T
	Manager(Manager) T
	Admin(Admin) T
}

// Match dispatches r to the visitor method for its variant.
func Match[T any](r Role, v Visitor[T]) T {
	switch x := r.(type) {
	case Customer:
		return v.Customer(x)
	case DeliveryPartner:
		return v.DeliveryPartner(x)
	case Manager:
		return v.Manager(x)
	case Admin:
		return v.Admin(x)
	}
	// Role is sealed; every implementation is handled above.
	panic("role: unknown variant")
}
