package gates_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/clanhq/warden/internal/app/system/gates"
	"github.com/clanhq/warden/internal/testutil"
)

func interactionWith(perms int64) *discordgo.Interaction {
	actor := testutil.Member("staff-1", "chief")
	return testutil.ButtonInteraction("deny:user-1", "guild-1", actor, perms, nil)
}

func TestRequireManageRoles_Allows(t *testing.T) {
	t.Parallel()

	gw := &testutil.FakeGateway{}
	res := gates.RequireManageRoles(gw, interactionWith(discordgo.PermissionManageRoles), "no")

	assert.True(t, res.OK)
	assert.NotNil(t, res.Actor)
	assert.Empty(t, gw.Replies)
}

func TestRequireManageRoles_AdministratorImplies(t *testing.T) {
	t.Parallel()

	gw := &testutil.FakeGateway{}
	res := gates.RequireManageRoles(gw, interactionWith(discordgo.PermissionAdministrator), "no")

	assert.True(t, res.OK)
}

func TestRequireManageRoles_RejectsEphemerally(t *testing.T) {
	t.Parallel()

	gw := &testutil.FakeGateway{}
	res := gates.RequireManageRoles(gw, interactionWith(discordgo.PermissionSendMessages), "You need Manage Roles to do that.")

	assert.False(t, res.OK)
	reply := gw.LastReply()
	assert.True(t, reply.Ephemeral)
	assert.Equal(t, "You need Manage Roles to do that.", reply.Content)
}

func TestRequireAdministrator_RejectsManageRolesOnly(t *testing.T) {
	t.Parallel()

	gw := &testutil.FakeGateway{}
	res := gates.RequireAdministrator(gw, interactionWith(discordgo.PermissionManageRoles), "admin only")

	assert.False(t, res.OK)
	assert.Equal(t, "admin only", gw.LastReply().Content)
}

func TestRequire_NoMemberContext(t *testing.T) {
	t.Parallel()

	gw := &testutil.FakeGateway{}
	i := &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand}
	res := gates.RequireAdministrator(gw, i, "admin only")

	assert.False(t, res.OK)
	assert.Contains(t, gw.LastReply().Content, "inside the server")
}
