package provision_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/features/provision"
	"github.com/clanhq/warden/internal/testutil"
)

// fakeGuild layers a mutable channel listing over the fake gateway so
// consecutive Apply runs see what earlier runs created.
type fakeGuild struct {
	*testutil.FakeGateway

	mu       sync.Mutex
	channels []*discordgo.Channel
}

func newFakeGuild(existing ...*discordgo.Channel) *fakeGuild {
	g := &fakeGuild{FakeGateway: &testutil.FakeGateway{}, channels: existing}
	g.ChannelsFunc = func(string) ([]*discordgo.Channel, error) {
		g.mu.Lock()
		defer g.mu.Unlock()
		out := make([]*discordgo.Channel, len(g.channels))
		copy(out, g.channels)
		return out, nil
	}
	g.CreateChannelFunc = func(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
		g.mu.Lock()
		defer g.mu.Unlock()
		ch := &discordgo.Channel{
			ID:       "chan-" + data.Name,
			GuildID:  guildID,
			Name:     data.Name,
			Type:     data.Type,
			ParentID: data.ParentID,
		}
		g.channels = append(g.channels, ch)
		return ch, nil
	}
	return g
}

func mustPlan(t *testing.T) provision.Plan {
	t.Helper()
	plan, err := provision.BuildPlan(testRoleIDs())
	require.NoError(t, err)
	return plan
}

func TestApply_CreatesFullLayoutOnEmptyGuild(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	require.NoError(t, eng.Apply(mustPlan(t)))

	// 2 categories + 7 text/voice channels.
	require.Len(t, guild.Created, 10)

	byName := map[string]testutil.CreatedChannel{}
	for _, c := range guild.Created {
		byName[c.Data.Name] = c
	}
	staff := byName[provision.StaffCategoryName]
	assert.Equal(t, discordgo.ChannelTypeGuildCategory, staff.Data.Type)
	require.Len(t, staff.Data.PermissionOverwrites, 3)

	inbox := byName["join-requests"]
	assert.Equal(t, "chan-"+provision.StaffCategoryName, inbox.Data.ParentID)

	verify := byName[provision.VerifyName]
	assert.Empty(t, verify.Data.ParentID)
	assert.Len(t, verify.Data.PermissionOverwrites, 6)

	voice := byName[provision.WarVoiceName]
	assert.Equal(t, discordgo.ChannelTypeGuildVoice, voice.Data.Type)
	assert.Equal(t, "chan-"+provision.ClanHQCategoryName, voice.Data.ParentID)
}

func TestApply_SecondRunCreatesNothing(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	require.NoError(t, provision.NewEngine(guild, "guild-1", zap.NewNop()).Apply(mustPlan(t)))
	created := len(guild.Created)

	require.NoError(t, provision.NewEngine(guild, "guild-1", zap.NewNop()).Apply(mustPlan(t)))
	assert.Equal(t, created, len(guild.Created), "second run must not create duplicates")
}

func TestApply_ReconcilesExistingChannelCaseInsensitive(t *testing.T) {
	t.Parallel()

	// Pre-existing #VERIFY with no parent; names match case-insensitively.
	existing := testutil.Channel("chan-old-verify", "VERIFY", discordgo.ChannelTypeGuildText, "", 3)
	guild := newFakeGuild(existing)
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	require.NoError(t, eng.Apply(mustPlan(t)))

	for _, c := range guild.Created {
		assert.NotEqual(t, provision.VerifyName, c.Data.Name, "existing channel must be reused, not recreated")
	}

	var overwriteEdit bool
	for _, e := range guild.Edits {
		if e.ChannelID == "chan-old-verify" && e.Edit.PermissionOverwrites != nil {
			overwriteEdit = true
			require.Len(t, e.Edit.PermissionOverwrites, 6)
		}
	}
	assert.True(t, overwriteEdit, "declared overwrites must replace the existing ones")
}

func TestEnsureChannel_MovesExistingUnderDeclaredParent(t *testing.T) {
	t.Parallel()

	orphan := testutil.Channel("chan-stray", "war-chat", discordgo.ChannelTypeGuildText, "other-parent", 1)
	guild := newFakeGuild(orphan)
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	ch, err := eng.EnsureChannel(discordgo.ChannelTypeGuildText, "war-chat", "cat-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "chan-stray", ch.ID)

	require.NotEmpty(t, guild.Edits)
	assert.Equal(t, "cat-1", guild.Edits[0].Edit.ParentID)
}

func TestEnsureChannel_ReconcileFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	existing := testutil.Channel("chan-1", "verify", discordgo.ChannelTypeGuildText, "", 0)
	guild := newFakeGuild(existing)
	guild.EditChannelFunc = func(string, *discordgo.ChannelEdit) (*discordgo.Channel, error) {
		return nil, errors.New("rate limited")
	}
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	ch, err := eng.EnsureChannel(discordgo.ChannelTypeGuildText, "verify", "cat-1", []provision.Overwrite{
		{RoleID: "guild-1", Allow: discordgo.PermissionViewChannel},
	})
	require.NoError(t, err, "reconciliation failures are cosmetic")
	assert.Equal(t, "chan-1", ch.ID)
}

func TestApply_CreationFailureAbortsSequence(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	guild.CreateChannelFunc = func(string, discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
		return nil, errors.New("missing permissions")
	}
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	err := eng.Apply(mustPlan(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create channel")
	// The first create failed and nothing after it was attempted.
	assert.Len(t, guild.Created, 1)
}

func TestApply_ListingFailurePropagates(t *testing.T) {
	t.Parallel()

	guild := newFakeGuild()
	guild.ChannelsFunc = func(string) ([]*discordgo.Channel, error) {
		return nil, errors.New("gateway down")
	}
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	err := eng.Apply(mustPlan(t))
	require.Error(t, err)
	assert.Zero(t, len(guild.Created))
}

func TestEnsureChannel_DuplicateNamesPickDeterministicWinner(t *testing.T) {
	t.Parallel()

	a := testutil.Channel("chan-b", "verify", discordgo.ChannelTypeGuildText, "", 5)
	b := testutil.Channel("chan-a", "verify", discordgo.ChannelTypeGuildText, "", 2)
	c := testutil.Channel("chan-c", "verify", discordgo.ChannelTypeGuildText, "", 2)

	// Same duplicates in two listing orders must resolve identically.
	for _, listing := range [][]*discordgo.Channel{{a, b, c}, {c, b, a}} {
		guild := newFakeGuild(listing...)
		eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

		ch, err := eng.EnsureChannel(discordgo.ChannelTypeGuildText, "verify", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "chan-a", ch.ID, "lowest position then lowest id wins")
		assert.Empty(t, guild.Created)
	}
}

func TestEnsureCategory_KindsDoNotCollide(t *testing.T) {
	t.Parallel()

	// A text channel named STAFF must not satisfy the category lookup.
	text := testutil.Channel("chan-text", strings.ToLower(provision.StaffCategoryName), discordgo.ChannelTypeGuildText, "", 0)
	guild := newFakeGuild(text)
	eng := provision.NewEngine(guild, "guild-1", zap.NewNop())

	cat, err := eng.EnsureCategory(provision.StaffCategoryName, nil)
	require.NoError(t, err)
	assert.Equal(t, discordgo.ChannelTypeGuildCategory, cat.Type)
	require.Len(t, guild.Created, 1)
}
