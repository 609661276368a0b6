// Package gateway wraps the Discord session behind the small set of guild
// operations Warden's features actually use.
//
// Features declare consumer-side interfaces over these methods, so their
// tests run against a fake instead of a live session. The wrapper itself is
// deliberately thin: it adds no retry, caching, or timeout policy beyond
// what discordgo already provides, and every method maps to exactly one
// platform call.
package gateway

import (
	"github.com/bwmarrin/discordgo"
)

// Client exposes guild introspection, mutation, interaction I/O, and command
// registration over a connected discordgo session.
type Client struct {
	s *discordgo.Session
}

// New wraps a session. The session does not need to be open yet; command
// registration is the only method that requires the identified bot user.
func New(s *discordgo.Session) *Client {
	return &Client{s: s}
}

// Roles lists all roles in the guild.
func (c *Client) Roles(guildID string) ([]*discordgo.Role, error) {
	return c.s.GuildRoles(guildID)
}

// Channels lists all channels and categories in the guild. The ordering of
// the result is platform-defined; callers must not rely on it.
func (c *Client) Channels(guildID string) ([]*discordgo.Channel, error) {
	return c.s.GuildChannels(guildID)
}

// Channel fetches a single channel by id.
func (c *Client) Channel(channelID string) (*discordgo.Channel, error) {
	return c.s.Channel(channelID)
}

// Member fetches a guild member by user id.
func (c *Client) Member(guildID, userID string) (*discordgo.Member, error) {
	return c.s.GuildMember(guildID, userID)
}

// CreateChannel creates a channel or category with its initial permission
// overwrites in one call.
func (c *Client) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return c.s.GuildChannelCreateComplex(guildID, data)
}

// EditChannel applies a partial edit (parent move, overwrite replacement).
func (c *Client) EditChannel(channelID string, edit *discordgo.ChannelEdit) (*discordgo.Channel, error) {
	return c.s.ChannelEditComplex(channelID, edit)
}

// AddRole adds a role to a member. The platform treats an add of an
// already-held role as a no-op.
func (c *Client) AddRole(guildID, userID, roleID string) error {
	return c.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

// RemoveRole removes a role from a member. Removing an absent role is a
// platform-side no-op.
func (c *Client) RemoveRole(guildID, userID, roleID string) error {
	return c.s.GuildMemberRoleRemove(guildID, userID, roleID)
}

// Kick removes a member from the guild with an audit-log reason.
func (c *Client) Kick(guildID, userID, reason string) error {
	return c.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

// SendMessage sends a message with embeds and components to a channel.
func (c *Client) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return c.s.ChannelMessageSendComplex(channelID, msg)
}

// Message fetches a message by channel and message id.
func (c *Client) Message(channelID, messageID string) (*discordgo.Message, error) {
	return c.s.ChannelMessage(channelID, messageID)
}

// EditComponents replaces the component rows on an existing message,
// leaving embeds and content untouched.
func (c *Client) EditComponents(channelID, messageID string, components []discordgo.MessageComponent) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.Components = &components
	_, err := c.s.ChannelMessageEditComplex(edit)
	return err
}

// Respond sends the initial response to an interaction. An interaction can
// be responded to exactly once; further output must use FollowUp.
func (c *Client) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return c.s.InteractionRespond(i, resp)
}

// FollowUp sends a follow-up message to an already-responded interaction.
func (c *Client) FollowUp(i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	_, err := c.s.FollowupMessageCreate(i, true, params)
	return err
}

// OverwriteCommands bulk-replaces the application's slash commands for one
// guild with the given set.
func (c *Client) OverwriteCommands(guildID string, commands []*discordgo.ApplicationCommand) error {
	_, err := c.s.ApplicationCommandBulkOverwrite(c.s.State.User.ID, guildID, commands)
	return err
}
