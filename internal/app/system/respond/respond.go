// Package respond centralizes interaction replies so every user-visible
// outcome is delivered the same way: as an ephemeral message to the acting
// user, never to the wider channel.
package respond

import (
	"github.com/bwmarrin/discordgo"
)

// Responder is the slice of the gateway needed to answer an interaction.
type Responder interface {
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowUp(i *discordgo.Interaction, params *discordgo.WebhookParams) error
}

// Ephemeral sends the initial interaction response, visible only to the
// acting user.
func Ephemeral(r Responder, i *discordgo.Interaction, content string) error {
	return r.Respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// FollowUpEphemeral sends an ephemeral follow-up after the initial response
// has been sent (long-running commands acknowledge first, then report).
func FollowUpEphemeral(r Responder, i *discordgo.Interaction, content string) error {
	return r.FollowUp(i, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}
