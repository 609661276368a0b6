package provision_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clanhq/warden/internal/app/features/provision"
)

func testRoleIDs() provision.RoleIDs {
	return provision.RoleIDs{
		Everyone:   "guild-1",
		Leader:     "role-leader",
		CoLeader:   "role-coleader",
		Elder:      "role-elder",
		Member:     "role-member",
		Unverified: "role-unverified",
	}
}

func TestBuildPlan_Layout(t *testing.T) {
	t.Parallel()

	plan, err := provision.BuildPlan(testRoleIDs())
	require.NoError(t, err)

	require.Len(t, plan.Categories, 2)
	staff, clanHQ := plan.Categories[0], plan.Categories[1]

	assert.Equal(t, provision.StaffCategoryName, staff.Name)
	require.Len(t, staff.Children, 2)
	assert.Equal(t, "join-requests", staff.Children[0].Name)
	assert.Equal(t, "mod-log", staff.Children[1].Name)

	assert.Equal(t, provision.ClanHQCategoryName, clanHQ.Name)
	assert.Empty(t, clanHQ.Overwrites)
	require.Len(t, clanHQ.Children, 5)
	assert.Equal(t, discordgo.ChannelTypeGuildVoice, clanHQ.Children[4].Kind)

	require.Len(t, plan.TopLevel, 1)
	assert.Equal(t, provision.VerifyName, plan.TopLevel[0].Name)
}

func TestBuildPlan_StaffCategoryHiddenFromEveryone(t *testing.T) {
	t.Parallel()

	plan, err := provision.BuildPlan(testRoleIDs())
	require.NoError(t, err)

	staff := plan.Categories[0]
	require.Len(t, staff.Overwrites, 3)
	assert.Equal(t, "guild-1", staff.Overwrites[0].RoleID)
	assert.Equal(t, int64(discordgo.PermissionViewChannel), staff.Overwrites[0].Deny)
	assert.Zero(t, staff.Overwrites[0].Allow)
}

func TestBuildPlan_NoOverlappingMasks(t *testing.T) {
	t.Parallel()

	plan, err := provision.BuildPlan(testRoleIDs())
	require.NoError(t, err)

	check := func(name string, overwrites []provision.Overwrite) {
		for _, o := range overwrites {
			assert.Zerof(t, o.Allow&o.Deny, "channel %q role %s: allow/deny overlap", name, o.RoleID)
		}
	}
	for _, cat := range plan.Categories {
		check(cat.Name, cat.Overwrites)
		for _, ch := range cat.Children {
			check(ch.Name, ch.Overwrites)
		}
	}
	for _, ch := range plan.TopLevel {
		check(ch.Name, ch.Overwrites)
	}
}

func TestBuildPlan_ElderOptional(t *testing.T) {
	t.Parallel()

	ids := testRoleIDs()
	ids.Elder = ""
	plan, err := provision.BuildPlan(ids)
	require.NoError(t, err)

	verify := plan.TopLevel[0]
	for _, o := range verify.Overwrites {
		assert.NotEqual(t, "role-elder", o.RoleID)
	}

	withElder, err := provision.BuildPlan(testRoleIDs())
	require.NoError(t, err)
	assert.Len(t, withElder.TopLevel[0].Overwrites, len(verify.Overwrites)+1)
}

func TestBuildPlan_MissingRequiredRoleIDs(t *testing.T) {
	t.Parallel()

	for _, clear := range []func(*provision.RoleIDs){
		func(ids *provision.RoleIDs) { ids.Leader = "" },
		func(ids *provision.RoleIDs) { ids.CoLeader = "" },
		func(ids *provision.RoleIDs) { ids.Member = "" },
		func(ids *provision.RoleIDs) { ids.Unverified = "" },
	} {
		ids := testRoleIDs()
		clear(&ids)
		_, err := provision.BuildPlan(ids)
		require.ErrorIs(t, err, provision.ErrMissingRoleIDs)
	}
}
