package service_test

import (
	"context"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleHierarchy_CanManage(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		actor  *models.User
		target *models.User
		want   bool
	}{
		{"SuperAdminOnAdmin", f.super, f.admin, true},
		{"SuperAdminOnUser", f.super, f.carol, true},
		{"SuperAdminOnSuperAdmin", f.super, f.super, false},
		{"AdminOnOwnUser", f.admin, f.alice, true},
		{"AdminOnForeignUser", f.admin, f.carol, false},
		{"AdminOnAdmin", f.admin, f.otherAdmin, false},
		{"AdminOnSelf", f.admin, f.admin, false},
		{"UserOnSelf", f.alice, f.alice, true},
		{"UserOnOther", f.alice, f.bob, false},
		{"UserOnAdmin", f.alice, f.admin, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.hierarchy.CanManage(identity(tc.actor), tc.target))
		})
	}
	assert.False(t, f.hierarchy.CanManage(identity(f.super), nil))
}

func TestRoleHierarchy_VisibleUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	names := func(users []models.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.Username)
		}
		return out
	}

	all, err := f.hierarchy.VisibleUsers(ctx, identity(f.super))
	require.NoError(t, err)
	assert.Equal(t, []string{"admin1", "admin2", "alice", "bob", "carol"}, names(all))

	owned, err := f.hierarchy.VisibleUsers(ctx, identity(f.admin))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names(owned))
	for _, u := range owned {
		require.NotNil(t, u.OwnerAdminID)
		assert.Equal(t, f.admin.ID, *u.OwnerAdminID)
	}

	none, err := f.hierarchy.VisibleUsers(ctx, identity(f.alice))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRoleHierarchy_CanProcessOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := &models.Order{UserID: f.alice.ID}

	for _, tc := range []struct {
		actor *models.User
		want  bool
	}{
		{f.super, true},
		{f.admin, true},
		{f.otherAdmin, false},
		{f.alice, false},
	} {
		ok, err := f.hierarchy.CanProcessOrder(ctx, identity(tc.actor), order)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, tc.actor.Username)
	}
}
