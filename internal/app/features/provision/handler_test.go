package provision_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/features/provision"
	"github.com/clanhq/warden/internal/testutil"
)

func testConfig() provision.Config {
	return provision.Config{
		LeaderRoleID:     "role-leader",
		CoLeaderRoleID:   "role-coleader",
		ElderRoleID:      "role-elder",
		MemberRoleID:     "role-member",
		UnverifiedRoleID: "role-unverified",
	}
}

func TestHandleSetup_ProvisionsAndReportsDone(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	h := provision.NewHandler(guild, testConfig(), zap.NewNop())

	actor := testutil.Member("staff-1", "chief")
	i := testutil.CommandInteraction("setupserver", "guild-1", actor, discordgo.PermissionAdministrator)

	h.HandleSetup(i)

	assert.Len(t, guild.Created, 10)
	reply := guild.LastReply()
	assert.True(t, reply.FollowUp)
	assert.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "Done!")
}

func TestHandleSetup_NonAdminRejectedWithoutMutation(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	h := provision.NewHandler(guild, testConfig(), zap.NewNop())

	actor := testutil.Member("mod-1", "helper")
	i := testutil.CommandInteraction("setupserver", "guild-1", actor, discordgo.PermissionManageRoles)

	h.HandleSetup(i)

	assert.Empty(t, guild.Created)
	assert.Empty(t, guild.Edits)
	reply := guild.LastReply()
	assert.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "Administrator")
}

func TestHandleSetup_MissingRoleIDsAbortsBeforeAnyCall(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CoLeaderRoleID = ""

	guild := newFakeGuild()
	h := provision.NewHandler(guild, cfg, zap.NewNop())

	actor := testutil.Member("staff-1", "chief")
	i := testutil.CommandInteraction("setupserver", "guild-1", actor, discordgo.PermissionAdministrator)

	h.HandleSetup(i)

	assert.Empty(t, guild.Created, "configuration errors must precede all side effects")
	assert.Empty(t, guild.Edits)
	reply := guild.LastReply()
	require.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "Setup failed")
	assert.Contains(t, reply.Content, "coleader_role_id")
}

func TestHandleSetup_CreationFailureReportedToActor(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	guild.CreateChannelFunc = func(string, discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
		return nil, assert.AnError
	}
	h := provision.NewHandler(guild, testConfig(), zap.NewNop())

	actor := testutil.Member("staff-1", "chief")
	i := testutil.CommandInteraction("setupserver", "guild-1", actor, discordgo.PermissionAdministrator)

	h.HandleSetup(i)

	reply := guild.LastReply()
	assert.True(t, reply.FollowUp)
	assert.Contains(t, reply.Content, "Setup failed")
}
