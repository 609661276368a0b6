// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Warden.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: discord_token, guild_id, etc.
//   - Environment variables: WARDEN_DISCORD_TOKEN, WARDEN_GUILD_ID, etc.
//   - Command-line flags: --discord_token, --guild_id, etc.
var appConfigKeys = []config.AppKey{
	{Name: "discord_token", Default: "", Desc: "Discord bot token (required)"},
	{Name: "guild_id", Default: "", Desc: "Target guild id; when empty, slash commands are not registered"},
	{Name: "join_requests_channel_id", Default: "", Desc: "Known review inbox channel id (optional; falls back to finding #join-requests by name)"},

	// Role ids for the review and provisioning flows. Use /listroles to
	// fetch them once the bot is in the guild.
	{Name: "leader_role_id", Default: "", Desc: "Leader role id (required for /setupserver)"},
	{Name: "coleader_role_id", Default: "", Desc: "Co-Leader role id (required for /setupserver)"},
	{Name: "elder_role_id", Default: "", Desc: "Elder role id (optional; elder grants fall back to the member role)"},
	{Name: "member_role_id", Default: "", Desc: "Member role id (required for /setupserver)"},
	{Name: "unverified_role_id", Default: "", Desc: "Unverified role id assigned to new joiners (required for /setupserver)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the bot have access
// to configuration before the gateway session is built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WARDEN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DiscordToken:          appValues.String("discord_token"),
		GuildID:               appValues.String("guild_id"),
		JoinRequestsChannelID: appValues.String("join_requests_channel_id"),
		LeaderRoleID:          appValues.String("leader_role_id"),
		CoLeaderRoleID:        appValues.String("coleader_role_id"),
		ElderRoleID:           appValues.String("elder_role_id"),
		MemberRoleID:          appValues.String("member_role_id"),
		UnverifiedRoleID:      appValues.String("unverified_role_id"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Only the token is fatal here: the role ids are checked again at
// provisioning time (the one operation that requires them all), and a
// missing guild id just downgrades what the bot can do.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.DiscordToken == "" {
		return fmt.Errorf("discord_token is required (set WARDEN_DISCORD_TOKEN)")
	}
	if appCfg.GuildID == "" {
		logger.Warn("guild_id not set; slash commands will not be registered")
	}
	if appCfg.UnverifiedRoleID == "" {
		logger.Warn("unverified_role_id not set; new members will not be tagged")
	}
	return nil
}
