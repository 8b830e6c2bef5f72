package identity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"admin", "admin", RoleAdmin, false},
		{"owner mixed case", "Owner", RoleOwner, false},
		{"customer with spaces", "  customer ", RoleCustomer, false},
		{"unknown", "manager", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range AllRoles() {
		assert.True(t, r.IsValid(), r.String())
	}
	assert.False(t, Role("root").IsValid())
}

func TestNewActor(t *testing.T) {
	t.Run("valid owner", func(t *testing.T) {
		id := uuid.New()
		a, err := NewActor(id, RoleOwner, nil)
		require.NoError(t, err)
		assert.Equal(t, id, a.UserID)
		assert.True(t, a.IsOwner())
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewActor(uuid.Nil, RoleOwner, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := NewActor(uuid.New(), Role("guest"), nil)
		assert.Error(t, err)
	})
}

func TestActor_CanView(t *testing.T) {
	ownerID := uuid.New()
	customerID := uuid.New()
	otherCustomer := uuid.New()

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin sees everything", Actor{UserID: uuid.New(), Role: RoleAdmin}, true},
		{"owning owner", Actor{UserID: ownerID, Role: RoleOwner}, true},
		{"other owner", Actor{UserID: uuid.New(), Role: RoleOwner}, false},
		{"linked customer", Actor{UserID: uuid.New(), Role: RoleCustomer, CustomerID: &customerID}, true},
		{"other customer", Actor{UserID: uuid.New(), Role: RoleCustomer, CustomerID: &otherCustomer}, false},
		{"customer without profile", Actor{UserID: uuid.New(), Role: RoleCustomer}, false},
		{"unknown role", Actor{UserID: ownerID, Role: Role("x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanView(ownerID, customerID))
		})
	}
}

func TestActor_Require(t *testing.T) {
	customerID := uuid.New()

	owner := Actor{UserID: uuid.New(), Role: RoleOwner}
	assert.NoError(t, owner.RequireOwner())
	assert.True(t, errors.Is(owner.RequireCustomer(), shared.ErrForbidden))

	customer := Actor{UserID: uuid.New(), Role: RoleCustomer, CustomerID: &customerID}
	assert.NoError(t, customer.RequireCustomer())
	assert.True(t, errors.Is(customer.RequireOwner(), shared.ErrForbidden))

	unlinked := Actor{UserID: uuid.New(), Role: RoleCustomer}
	assert.Error(t, unlinked.RequireCustomer())
}
