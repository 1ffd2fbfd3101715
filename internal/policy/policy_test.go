package policy

import (
	"testing"

	"github.com/famnest/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	adminUser := &models.User{ID: 1, Role: models.RoleAdmin}
	memberUser := &models.User{ID: 2, Role: models.RoleMember}
	pendingUser := &models.User{ID: 3, Role: models.RolePending}

	tests := []struct {
		name    string
		actor   *models.User
		action  Action
		allowed bool
	}{
		{"nil actor denied", nil, ActionRead, false},
		{"admin can broadcast", adminUser, ActionBroadcast, true},
		{"member cannot broadcast", memberUser, ActionBroadcast, false},
		{"pending cannot broadcast", pendingUser, ActionBroadcast, false},
		{"admin can manage users", adminUser, ActionManageUsers, true},
		{"member cannot manage users", memberUser, ActionManageUsers, false},
		{"admin can view audit", adminUser, ActionViewAudit, true},
		{"member cannot moderate", memberUser, ActionModerate, false},
		{"member can create", memberUser, ActionCreate, true},
		{"pending cannot create", pendingUser, ActionCreate, false},
		{"pending can read", pendingUser, ActionRead, true},
		{"admin can create", adminUser, ActionCreate, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.actor, tt.action)
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Empty(t, d.Reason)
			} else {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}
