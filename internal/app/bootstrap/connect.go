// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/system/gateway"
)

// ConnectDB fills WAFFLE's backend-connection slot. The only backend here
// is Discord: this builds the session with the guilds and guild-members
// intents (joins and role state are all the bot listens for). The session
// is opened later, in Startup, after the event handlers are wired.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	session, err := discordgo.New("Bot " + appCfg.DiscordToken)
	if err != nil {
		return Deps{}, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMembers

	return Deps{
		Session: session,
		Gateway: gateway.New(session),
	}, nil
}
