package provision

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/system/gates"
	"github.com/clanhq/warden/internal/app/system/respond"
)

// CommandGateway is everything the /setupserver handler needs: the engine's
// guild operations plus interaction replies.
type CommandGateway interface {
	Gateway
	respond.Responder
}

// Config carries the configured role ids. The @everyone role id is derived
// from the guild at invocation time, so it is not configured here.
type Config struct {
	LeaderRoleID     string
	CoLeaderRoleID   string
	ElderRoleID      string
	MemberRoleID     string
	UnverifiedRoleID string
}

// Handler serves the /setupserver command.
type Handler struct {
	gw  CommandGateway
	cfg Config
	log *zap.Logger
}

// NewHandler constructs the provisioning command handler.
func NewHandler(gw CommandGateway, cfg Config, log *zap.Logger) *Handler {
	return &Handler{gw: gw, cfg: cfg, log: log}
}

var adminOnly int64 = discordgo.PermissionAdministrator

// Command declares /setupserver for guild registration.
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "setupserver",
		Description:              "Create categories/channels with correct permissions.",
		DefaultMemberPermissions: &adminOnly,
	}
}

// HandleSetup runs a provisioning pass for the guild the interaction came
// from. The role-id precondition is checked before any platform call; a
// creation failure aborts the remaining sequence and is reported to the
// actor as an ephemeral follow-up.
func (h *Handler) HandleSetup(i *discordgo.Interaction) {
	if res := gates.RequireAdministrator(h.gw, i, "You need Administrator to run /setupserver."); !res.OK {
		return
	}

	// The guild id doubles as the @everyone role id.
	plan, err := BuildPlan(RoleIDs{
		Everyone:   i.GuildID,
		Leader:     h.cfg.LeaderRoleID,
		CoLeader:   h.cfg.CoLeaderRoleID,
		Elder:      h.cfg.ElderRoleID,
		Member:     h.cfg.MemberRoleID,
		Unverified: h.cfg.UnverifiedRoleID,
	})
	if err != nil {
		_ = respond.Ephemeral(h.gw, i, "Setup failed: "+err.Error())
		return
	}

	if err := respond.Ephemeral(h.gw, i, "Setting up categories & channels…"); err != nil {
		h.log.Warn("setup acknowledgment failed", zap.Error(err))
	}

	eng := NewEngine(h.gw, i.GuildID, h.log)
	if err := eng.Apply(plan); err != nil {
		h.log.Error("provisioning failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		if err := respond.FollowUpEphemeral(h.gw, i, "Setup failed: "+err.Error()); err != nil {
			h.log.Warn("setup failure report failed", zap.Error(err))
		}
		return
	}

	if err := respond.FollowUpEphemeral(h.gw, i, "Done! Channels & permissions configured."); err != nil {
		h.log.Warn("setup completion report failed", zap.Error(err))
	}
}
