// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig) and are read exactly once: the
// struct is passed into every component at construction and never mutated,
// so operating parameters are fixed for the process lifetime.
//
// WAFFLE's CoreConfig keeps framework-level settings (HTTP port for the
// health surface, logging level and format); AppConfig is everything
// specific to the bot: the session token, the target guild, and the role
// ids the review and provisioning flows act on.
type AppConfig struct {
	// DiscordToken authenticates the gateway session. Required.
	DiscordToken string

	// GuildID is the single community this bot serves. Optional: when
	// empty, slash commands are not registered anywhere and join events
	// are handled regardless of origin guild.
	GuildID string

	// JoinRequestsChannelID is a pre-known review inbox channel id.
	// Optional; the inbox falls back to a by-name lookup.
	JoinRequestsChannelID string

	// Role ids, harvested via /listroles. Leader/CoLeader/Member/
	// Unverified are required only at provisioning time; Elder is
	// optional everywhere (elder grants fall back to the member role).
	LeaderRoleID     string
	CoLeaderRoleID   string
	ElderRoleID      string
	MemberRoleID     string
	UnverifiedRoleID string
}
