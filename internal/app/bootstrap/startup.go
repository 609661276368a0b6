// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/features/joinreview"
	"github.com/clanhq/warden/internal/app/features/provision"
	"github.com/clanhq/warden/internal/app/features/roles"
	"github.com/clanhq/warden/internal/app/system/modlog"
)

// Startup wires the feature handlers onto the session, opens the gateway,
// and registers the guild slash commands. It runs after config validation
// and session construction, before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	review := joinreview.NewHandler(deps.Gateway, joinreview.Config{
		GuildID:          appCfg.GuildID,
		InboxChannelID:   appCfg.JoinRequestsChannelID,
		CoLeaderRoleID:   appCfg.CoLeaderRoleID,
		ElderRoleID:      appCfg.ElderRoleID,
		MemberRoleID:     appCfg.MemberRoleID,
		UnverifiedRoleID: appCfg.UnverifiedRoleID,
	}, modlog.New(deps.Gateway, appCfg.GuildID, logger), logger)

	roleList := roles.NewHandler(deps.Gateway, logger)

	prov := provision.NewHandler(deps.Gateway, provision.Config{
		LeaderRoleID:     appCfg.LeaderRoleID,
		CoLeaderRoleID:   appCfg.CoLeaderRoleID,
		ElderRoleID:      appCfg.ElderRoleID,
		MemberRoleID:     appCfg.MemberRoleID,
		UnverifiedRoleID: appCfg.UnverifiedRoleID,
	}, logger)

	deps.Session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logger.Info("gateway session ready", zap.String("user", r.User.String()))
	})
	deps.Session.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
		review.MemberJoined(e.Member)
	})
	deps.Session.AddHandler(func(_ *discordgo.Session, e *discordgo.InteractionCreate) {
		dispatch(review, roleList, prov, e.Interaction, logger)
	})

	if err := deps.Session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	if appCfg.GuildID == "" {
		logger.Warn("guild_id not set; skipping slash command registration")
		return nil
	}
	commands := []*discordgo.ApplicationCommand{
		joinreview.Command(),
		roles.Command(),
		provision.Command(),
	}
	if err := deps.Gateway.OverwriteCommands(appCfg.GuildID, commands); err != nil {
		// Not fatal: the bot still reacts to joins and existing cards.
		logger.Error("slash command registration failed", zap.Error(err))
		return nil
	}
	logger.Info("slash commands registered", zap.String("guild_id", appCfg.GuildID))
	return nil
}

// dispatch routes one interaction to its feature handler. Unrecognized
// commands and components are logged and dropped; the platform shows the
// actor a generic failure when nothing responds.
func dispatch(review *joinreview.Handler, roleList *roles.Handler, prov *provision.Handler, i *discordgo.Interaction, logger *zap.Logger) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch name := i.ApplicationCommandData().Name; name {
		case "reviewcard":
			review.HandleReviewCard(i)
		case "listroles":
			roleList.HandleList(i)
		case "setupserver":
			prov.HandleSetup(i)
		default:
			logger.Warn("unknown command", zap.String("command", name))
		}
	case discordgo.InteractionMessageComponent:
		review.HandleDecision(i)
	}
}
