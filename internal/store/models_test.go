package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/eventhub/internal/model"
)

func TestUserIsStaffish(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"regular user", User{Role: model.RoleRegular}, false},
		{"staff role without flag", User{Role: model.RoleStaff}, true},
		{"admin role without flag", User{Role: model.RoleAdmin}, true},
		{"flag without elevated role", User{Role: model.RoleRegular, IsStaff: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsStaffish())
		})
	}
}
