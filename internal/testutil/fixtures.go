package testutil

import "github.com/bwmarrin/discordgo"

// Channel builds a channel fixture.
func Channel(id, name string, kind discordgo.ChannelType, parentID string, position int) *discordgo.Channel {
	return &discordgo.Channel{
		ID:       id,
		Name:     name,
		Type:     kind,
		ParentID: parentID,
		Position: position,
	}
}

// Role builds a role fixture.
func Role(id, name string, position int) *discordgo.Role {
	return &discordgo.Role{ID: id, Name: name, Position: position}
}

// Member builds a guild member fixture holding the given roles.
func Member(userID, username string, roleIDs ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: userID, Username: username, Discriminator: "0"},
		Roles: roleIDs,
	}
}

// CommandInteraction builds a slash-command interaction from an actor with
// the given computed permissions.
func CommandInteraction(name, guildID string, actor *discordgo.Member, perms int64) *discordgo.Interaction {
	if actor != nil {
		actor.Permissions = perms
	}
	return &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  actor,
		Data:    discordgo.ApplicationCommandInteractionData{Name: name},
	}
}

// ButtonInteraction builds a message-component interaction on the given
// card message from an actor with the given computed permissions.
func ButtonInteraction(customID, guildID string, actor *discordgo.Member, perms int64, card *discordgo.Message) *discordgo.Interaction {
	if actor != nil {
		actor.Permissions = perms
	}
	return &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: guildID,
		Member:  actor,
		Message: card,
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}
}
