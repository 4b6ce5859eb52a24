package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHomeFor(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"customer", "/customer"},
		{"delivery_partner", "/delivery-partner"},
		{"manager", "/manager"},
		{"admin", "/admin"},
		{"", "/"},
		{"area_manager", "/"},
		{"ADMIN", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, HomeFor(tt.role))
		})
	}
}

func TestParse(t *testing.T) {
	r, ok := Parse("manager", "area-7")
	assert.True(t, ok)
	assert.Equal(t, Manager{AreaID: "area-7"}, r)
	assert.Equal(t, KindManager, r.Kind())

	r, ok = Parse("customer", "area-7")
	assert.True(t, ok)
	assert.Equal(t, Customer{}, r)

	r, ok = Parse("superuser", "")
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestRegistrable(t *testing.T) {
	assert.Equal(t, []Kind{KindCustomer, KindDeliveryPartner, KindManager}, Registrable())
	assert.True(t, IsRegistrable(KindManager))
	assert.False(t, IsRegistrable(KindAdmin))
	assert.False(t, IsRegistrable(Kind("owner")))
}

type describe struct{}

func (describe) Customer(Customer) string               { return "customer" }
func (describe) DeliveryPartner(DeliveryPartner) string { return "partner" }
func (describe) Manager(m Manager) string               { return "manager of " + m.AreaID }
func (describe) Admin(Admin) string                     { return "admin" }

func TestMatch(t *testing.T) {
	assert.Equal(t, "customer", Match[string](Customer{}, describe{}))
	assert.Equal(t, "partner", Match[string](DeliveryPartner{}, describe{}))
	assert.Equal(t, "manager of north", Match[string](Manager{AreaID: "north"}, describe{}))
	assert.Equal(t, "admin", Match[string](Admin{}, describe{}))
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Delivery Partner", KindDeliveryPartner.Label())
	assert.Equal(t, "Administrator", KindAdmin.Label())
	assert.Equal(t, "other", Kind("other").Label())
}
